package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/phone"
)

// Request модели

// ResolveRequest данные клиента из формы записи
type ResolveRequest struct {
	SalonID   uuid.UUID
	Phone     string
	FirstName string
	LastName  string
	Email     string
}

// CreateCustomerRequest создание (или перезапись по телефону) клиента администратором.
// Name используется, если FirstName/LastName не заданы: "Jane Mary Doe" -> "Jane" + "Mary Doe".
type CreateCustomerRequest struct {
	Name           string `json:"name" validate:"max=200"`
	FirstName      string `json:"firstName" validate:"max=100"`
	LastName       string `json:"lastName" validate:"max=100"`
	Phone          string `json:"phone" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	MarketingOptIn bool   `json:"marketingOptIn"`
	Notes          string `json:"notes" validate:"max=2000"`
}

// SplitName возвращает имя и фамилию с учетом поля Name
func (r *CreateCustomerRequest) SplitName() (first, last string) {
	first, last = strings.TrimSpace(r.FirstName), strings.TrimSpace(r.LastName)
	parts := strings.Fields(r.Name)
	if first == "" && len(parts) > 0 {
		first = parts[0]
	}
	if last == "" && len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}
	return first, last
}

// UpdateCustomerRequest частичное обновление: nil поле не изменяется.
// Пустые Email и Notes очищают значение.
type UpdateCustomerRequest struct {
	FirstName      *string `json:"firstName" validate:"omitempty,max=100"`
	LastName       *string `json:"lastName" validate:"omitempty,max=100"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Notes          *string `json:"notes" validate:"omitempty,max=2000"`
	MarketingOptIn *bool   `json:"marketingOptIn"`
}

// DeleteCustomerRequest удаление по ID или по телефону
type DeleteCustomerRequest struct {
	ID    *uuid.UUID
	Phone string
}

// Response модели

// LookupResult данные для предзаполнения формы постоянного клиента
type LookupResult struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     *string `json:"email"`
}

// CustomerResponse данные клиента для администратора
type CustomerResponse struct {
	ID             uuid.UUID  `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Phone          string     `json:"phone"`
	PhoneE164      *string    `json:"phoneE164"`
	Email          *string    `json:"email"`
	MarketingOptIn bool       `json:"marketingOptIn"`
	Notes          *string    `json:"notes"`
	LastVisit      *time.Time `json:"lastVisit"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// SearchResult элемент результата поиска
type SearchResult struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	PhoneE164 *string   `json:"phoneE164"`
}

// Методы конвертации

// FromDomainCustomer конвертирует domain модель в DTO
func FromDomainCustomer(c *domain.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Phone:          c.Phone,
		PhoneE164:      e164(c.Phone),
		Email:          c.Email,
		MarketingOptIn: c.MarketingOptIn,
		Notes:          c.Notes,
		LastVisit:      c.LastVisit,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// FromDomainSearch конвертирует результаты поиска
func FromDomainSearch(list []*domain.Customer) []SearchResult {
	out := make([]SearchResult, 0, len(list))
	for _, c := range list {
		out = append(out, SearchResult{
			ID:        c.ID,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			PhoneE164: e164(c.Phone),
		})
	}
	return out
}

func e164(digits string) *string {
	formatted, err := phone.E164(digits)
	if err != nil {
		return nil
	}
	return &formatted
}
