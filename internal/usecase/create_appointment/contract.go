package create_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	customerModels "github.com/m04kA/SMC-SalonBooking/internal/service/customers/models"
	"github.com/m04kA/SMC-SalonBooking/internal/service/notification"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	CountBySlot(ctx context.Context, salonID uuid.UUID, date time.Time, t types.TimeString) (int, error)
	ReserveSeat(ctx context.Context, salonID uuid.UUID, date time.Time, t types.TimeString) (int, error)
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// CustomerResolver сервис клиентов (*customers.Service)
type CustomerResolver interface {
	Resolve(ctx context.Context, req customerModels.ResolveRequest) (*domain.Customer, error)
	AdvanceLastVisit(ctx context.Context, customerID uuid.UUID, visitAt time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправка уведомлений о новой записи (*notification.Dispatcher)
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

// MetricsRecorder учет исходов записи (*metrics.Metrics)
type MetricsRecorder interface {
	ObserveAppointment(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени в часовом поясе салона
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время салона
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
