package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	ListByDate(ctx context.Context, salonID uuid.UUID, date time.Time) ([]*domain.Appointment, error)
	ListByCustomer(ctx context.Context, salonID, customerID uuid.UUID) ([]*domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	ReleaseSeat(ctx context.Context, salonID uuid.UUID, date time.Time, t types.TimeString) error
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetByID(ctx context.Context, salonID, id uuid.UUID) (*domain.Customer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
