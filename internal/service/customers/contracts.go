package customers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	customerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/customer"
)

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetByPhone(ctx context.Context, salonID uuid.UUID, phone string) (*domain.Customer, error)
	GetByID(ctx context.Context, salonID, id uuid.UUID) (*domain.Customer, error)
	InsertIfAbsent(ctx context.Context, c *domain.Customer) (bool, error)
	Upsert(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, salonID, id uuid.UUID, fields customerRepo.UpdateFields) error
	AdvanceLastVisit(ctx context.Context, id uuid.UUID, visitAt time.Time) (bool, error)
	Delete(ctx context.Context, salonID, id uuid.UUID) error
	Search(ctx context.Context, salonID uuid.UUID, q string, limit uint64) ([]*domain.Customer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
