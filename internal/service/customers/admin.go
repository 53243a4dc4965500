package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	customerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/customer"
	"github.com/m04kA/SMC-SalonBooking/internal/service/customers/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/phone"
	"github.com/m04kA/SMC-SalonBooking/pkg/validation"
)

// Create создает клиента или перезаписывает клиента с тем же телефоном
func (s *Service) Create(ctx context.Context, salonID uuid.UUID, req *models.CreateCustomerRequest) (*models.CustomerResponse, error) {
	s.logger.Info("Create: admin customer upsert for salon=%s", salonID)

	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	digits, err := phone.Normalize(req.Phone)
	if err != nil {
		return nil, validation.NewError("phone", ErrInvalidPhone.Error())
	}

	first, last := req.SplitName()
	if first == "" {
		return nil, validation.NewError("firstName", "is required")
	}
	if last == "" {
		return nil, validation.NewError("lastName", "is required")
	}

	saved, err := s.repo.Upsert(ctx, &domain.Customer{
		SalonID:        salonID,
		Phone:          digits,
		FirstName:      first,
		LastName:       last,
		Email:          nilIfEmpty(strings.TrimSpace(req.Email)),
		MarketingOptIn: req.MarketingOptIn,
		Notes:          nilIfEmpty(strings.TrimSpace(req.Notes)),
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create: %v", ErrInternal, err)
	}

	s.logger.Info("Create: customer id=%s saved", saved.ID)
	return models.FromDomainCustomer(saved), nil
}

// Get возвращает клиента салона по ID
func (s *Service) Get(ctx context.Context, salonID, id uuid.UUID) (*models.CustomerResponse, error) {
	c, err := s.repo.GetByID(ctx, salonID, id)
	if errors.Is(err, customerRepo.ErrCustomerNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		s.logger.Error("Get: repository error for customer id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Get: %v", ErrInternal, err)
	}
	return models.FromDomainCustomer(c), nil
}

// Update частично обновляет клиента
func (s *Service) Update(ctx context.Context, salonID, id uuid.UUID, req *models.UpdateCustomerRequest) (*models.CustomerResponse, error) {
	s.logger.Info("Update: customer id=%s", id)

	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("Update: validation failed for customer id=%s: %v", id, err)
		return nil, err
	}

	fields, err := s.toUpdateFields(req)
	if err != nil {
		return nil, err
	}
	if fields.IsEmpty() {
		return nil, ErrNothingToUpdate
	}

	err = s.repo.Update(ctx, salonID, id, fields)
	switch {
	case errors.Is(err, customerRepo.ErrCustomerNotFound):
		s.logger.Warn("Update: customer id=%s not found", id)
		return nil, ErrCustomerNotFound
	case errors.Is(err, customerRepo.ErrDuplicatePhone):
		s.logger.Warn("Update: phone conflict for customer id=%s", id)
		return nil, ErrDuplicatePhone
	case err != nil:
		s.logger.Error("Update: repository error for customer id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Update: %v", ErrInternal, err)
	}

	s.logger.Info("Update: customer id=%s updated", id)
	return s.Get(ctx, salonID, id)
}

// Delete удаляет клиента по ID или телефону; записи клиента сохраняются
func (s *Service) Delete(ctx context.Context, salonID uuid.UUID, req models.DeleteCustomerRequest) error {
	id := uuid.Nil
	if req.ID != nil {
		id = *req.ID
	}

	if id == uuid.Nil {
		if strings.TrimSpace(req.Phone) == "" {
			return validation.NewError("id", "provide id or phone")
		}
		digits, err := phone.Normalize(req.Phone)
		if err != nil {
			return validation.NewError("phone", ErrInvalidPhone.Error())
		}
		c, err := s.repo.GetByPhone(ctx, salonID, digits)
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			return ErrCustomerNotFound
		}
		if err != nil {
			s.logger.Error("Delete: lookup by phone failed: %v", err)
			return fmt.Errorf("%w: Delete: %v", ErrInternal, err)
		}
		id = c.ID
	}

	err := s.repo.Delete(ctx, salonID, id)
	if errors.Is(err, customerRepo.ErrCustomerNotFound) {
		s.logger.Warn("Delete: customer id=%s not found", id)
		return ErrCustomerNotFound
	}
	if err != nil {
		s.logger.Error("Delete: repository error for customer id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: customer id=%s deleted", id)
	return nil
}

// Search ищет клиентов по имени или телефону
func (s *Service) Search(ctx context.Context, salonID uuid.UUID, q string) ([]models.SearchResult, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < minSearchQuery {
		return []models.SearchResult{}, nil
	}

	list, err := s.repo.Search(ctx, salonID, q, SearchLimit)
	if err != nil {
		s.logger.Error("Search: repository error: %v", err)
		return nil, fmt.Errorf("%w: Search: %v", ErrInternal, err)
	}

	return models.FromDomainSearch(list), nil
}

func (s *Service) toUpdateFields(req *models.UpdateCustomerRequest) (customerRepo.UpdateFields, error) {
	var fields customerRepo.UpdateFields

	if req.FirstName != nil {
		if v := strings.TrimSpace(*req.FirstName); v != "" {
			fields.FirstName = &v
		}
	}
	if req.LastName != nil {
		if v := strings.TrimSpace(*req.LastName); v != "" {
			fields.LastName = &v
		}
	}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		digits, err := phone.Normalize(*req.Phone)
		if err != nil {
			return fields, validation.NewError("phone", ErrInvalidPhone.Error())
		}
		fields.Phone = &digits
	}
	if req.Email != nil {
		v := strings.TrimSpace(*req.Email)
		if v != "" && !s.validator.IsEmail(v) {
			return fields, validation.NewError("email", "must be a valid email address")
		}
		fields.Email = &sql.NullString{String: v, Valid: v != ""}
	}
	if req.Notes != nil {
		v := strings.TrimSpace(*req.Notes)
		fields.Notes = &sql.NullString{String: v, Valid: v != ""}
	}
	if req.MarketingOptIn != nil {
		fields.MarketingOptIn = req.MarketingOptIn
	}

	return fields, nil
}
