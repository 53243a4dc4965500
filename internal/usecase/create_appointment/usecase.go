package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBooking/internal/service/customers"
	customerModels "github.com/m04kA/SMC-SalonBooking/internal/service/customers/models"
	"github.com/m04kA/SMC-SalonBooking/internal/service/notification"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/validation"
)

// UseCase use case для создания записи
type UseCase struct {
	salonID         uuid.UUID
	location        *time.Location
	appointmentRepo AppointmentRepository
	customers       CustomerResolver
	txManager       TransactionManager
	notifier        Notifier
	metrics         MetricsRecorder
	validator       *validation.Validator
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	salonID uuid.UUID,
	location *time.Location,
	appointmentRepo AppointmentRepository,
	customers CustomerResolver,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{Location: location}
	}
	return &UseCase{
		salonID:         salonID,
		location:        location,
		appointmentRepo: appointmentRepo,
		customers:       customers,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		validator:       validation.New(),
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Клиент, запись, место во времени и дата визита фиксируются одной транзакцией;
// уведомление отправляется только после коммита и не влияет на результат.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: salon=%s, date=%s, time=%s", uc.salonID, req.Date, req.Time)

	// 1. Валидация формы по серверному времени
	now := uc.timeProvider.Now().In(uc.location)
	f, err := validateRequest(uc.validator, req, now, uc.location)
	if err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		uc.observe(metrics.AppointmentValidation)
		return nil, err
	}

	// 2. Быстрая проверка занятости
	if err := uc.checkCapacity(ctx, f.Date, f.Time); err != nil {
		uc.observe(resultOf(err))
		return nil, err
	}

	var (
		appt     *domain.Appointment
		customer *domain.Customer
	)

	// 3. Операции с БД в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Занимаем место во времени; ограничение БД не пускает шестую запись
		booked, err := uc.appointmentRepo.ReserveSeat(txCtx, uc.salonID, f.Date, f.Time)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotCapacityExceeded) {
				uc.logger.Warn("CreateAppointment: slot %s %s filled concurrently", req.Date, f.Time)
				return ErrSlotFull
			}
			uc.logger.Error("CreateAppointment: failed to reserve seat: %v", err)
			return fmt.Errorf("%w: failed to reserve seat: %v", ErrInternal, err)
		}
		uc.logger.Info("CreateAppointment: seat reserved, %d/%d taken", booked, domain.SlotCapacity)

		// 3.2. Находим или создаем клиента по телефону
		customer, err = uc.customers.Resolve(txCtx, customerModels.ResolveRequest{
			SalonID:   uc.salonID,
			Phone:     f.Phone,
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Email:     f.Email,
		})
		if err != nil {
			if errors.Is(err, customers.ErrInvalidPhone) {
				return validation.NewError("phone", "must be a 10-digit phone number")
			}
			uc.logger.Error("CreateAppointment: failed to resolve customer: %v", err)
			return fmt.Errorf("%w: failed to resolve customer: %v", ErrInternal, err)
		}

		// 3.3. Сохраняем запись со снимком данных формы
		customerID := customer.ID
		appt, err = uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			SalonID:    uc.salonID,
			Date:       f.Date,
			Time:       f.Time,
			CustomerID: &customerID,
			FirstName:  f.FirstName,
			LastName:   f.LastName,
			Phone:      f.Phone,
			Email:      emailOrNil(f.Email),
			Tech:       f.Tech,
			Message:    f.Message,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 3.4. Сдвигаем дату последнего визита, если новая запись позже
		if customer.VisitIsNewer(f.StartsAt) {
			if err := uc.customers.AdvanceLastVisit(txCtx, customer.ID, f.StartsAt); err != nil {
				uc.logger.Error("CreateAppointment: failed to advance last visit: %v", err)
				return fmt.Errorf("%w: failed to advance last visit: %v", ErrInternal, err)
			}
			visitAt := f.StartsAt
			customer.LastVisit = &visitAt
		}

		return nil
	})
	if err != nil {
		uc.observe(resultOf(err))
		return nil, err
	}

	uc.logger.Info("CreateAppointment: created appointment id=%s for customer id=%s", appt.ID, customer.ID)
	uc.observe(metrics.AppointmentCreated)

	// 4. Уведомление после коммита
	uc.notifier.Notify(ctx, notification.Notification{Appointment: appt, Customer: customer})

	return toResponse(appt, customer.ID), nil
}

func (uc *UseCase) observe(result string) {
	if uc.metrics != nil {
		uc.metrics.ObserveAppointment(result)
	}
}

// resultOf метка метрики для ошибки
func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrSlotFull):
		return metrics.AppointmentSlotFull
	case errors.Is(err, ErrValidation):
		return metrics.AppointmentValidation
	default:
		return metrics.AppointmentError
	}
}

func emailOrNil(email string) *string {
	if email == "" {
		return nil
	}
	return ptr.Ptr(email)
}

func toResponse(appt *domain.Appointment, customerID uuid.UUID) *Response {
	return &Response{
		ID:          appt.ID,
		CustomerID:  customerID,
		Date:        appt.Date.Format(domain.DateFormat),
		Time:        appt.Time,
		DisplayTime: appt.Time.Format12h(),
		FirstName:   appt.FirstName,
		LastName:    appt.LastName,
		Phone:       appt.Phone,
		Email:       appt.Email,
		Tech:        appt.Tech,
		Message:     appt.Message,
		CreatedAt:   appt.CreatedAt,
	}
}
