package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	customerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/customer"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

// Service сервис администрирования записей
type Service struct {
	salonID      uuid.UUID
	loc          *time.Location
	repo         AppointmentRepository
	customerRepo CustomerRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	salonID uuid.UUID,
	loc *time.Location,
	repo AppointmentRepository,
	customerRepo CustomerRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		salonID:      salonID,
		loc:          loc,
		repo:         repo,
		customerRepo: customerRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID получает запись салона по ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s", id)

	appt, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) || (err == nil && appt.SalonID != s.salonID) {
		s.logger.Warn("GetByID: appointment id=%s not found", id)
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		s.logger.Error("GetByID: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// ListByDate возвращает записи на дату (YYYY-MM-DD) по возрастанию времени
func (s *Service) ListByDate(ctx context.Context, rawDate string) (*models.AppointmentListResponse, error) {
	date, err := time.ParseInLocation(domain.DateFormat, rawDate, s.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	list, err := s.repo.ListByDate(ctx, s.salonID, date)
	if err != nil {
		s.logger.Error("ListByDate: repository error for date=%s: %v", rawDate, err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByDate: fetched %d appointments for date=%s", len(list), rawDate)
	return models.FromDomainAppointmentList(list), nil
}

// ListByCustomer возвращает историю записей клиента, сначала новые.
// Проверка клиента и выборка выполняются в одной read-only транзакции.
func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) (*models.AppointmentListResponse, error) {
	var list []*domain.Appointment

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		_, err := s.customerRepo.GetByID(txCtx, s.salonID, customerID)
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			return ErrCustomerNotFound
		}
		if err != nil {
			s.logger.Error("ListByCustomer: customer lookup failed id=%s: %v", customerID, err)
			return fmt.Errorf("%w: ListByCustomer - customer lookup: %v", ErrInternal, err)
		}

		list, err = s.repo.ListByCustomer(txCtx, s.salonID, customerID)
		if err != nil {
			s.logger.Error("ListByCustomer: repository error for customer id=%s: %v", customerID, err)
			return fmt.Errorf("%w: ListByCustomer - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ListByCustomer: fetched %d appointments for customer id=%s", len(list), customerID)
	return models.FromDomainAppointmentList(list), nil
}

// Delete удаляет запись и освобождает место в слоте в одной транзакции
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Delete: deleting appointment id=%s", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.repo.Delete(txCtx, id)
		if err != nil {
			return err
		}
		if appt.SalonID != s.salonID {
			return appointmentRepo.ErrAppointmentNotFound
		}
		return s.repo.ReleaseSeat(txCtx, appt.SalonID, appt.Date, appt.Time)
	})
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("Delete: appointment id=%s not found", id)
		return ErrAppointmentNotFound
	}
	if err != nil {
		s.logger.Error("Delete: failed for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: appointment id=%s deleted", id)
	return nil
}
