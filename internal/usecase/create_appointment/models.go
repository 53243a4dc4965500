package create_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request данные формы записи
type Request struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"max=254"`
	Tech      string `json:"tech" validate:"max=100"`
	Message   string `json:"message" validate:"max=1000"`
	Date      string `json:"date" validate:"required"` // YYYY-MM-DD
	Time      string `json:"time" validate:"required"` // HH:MM или HH:MM:SS
}

// Response созданная запись
type Response struct {
	ID          uuid.UUID        `json:"id"`
	CustomerID  uuid.UUID        `json:"customerId"`
	Date        string           `json:"date"`
	Time        types.TimeString `json:"time"`
	DisplayTime string           `json:"displayTime"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Phone       string           `json:"phone"`
	Email       *string          `json:"email,omitempty"`
	Tech        string           `json:"tech,omitempty"`
	Message     string           `json:"message,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// form проверенная и нормализованная форма
type form struct {
	FirstName string
	LastName  string
	Phone     string // 10 цифр
	Email     string
	Tech      string
	Message   string
	Date      time.Time
	Time      types.TimeString
	StartsAt  time.Time
}
