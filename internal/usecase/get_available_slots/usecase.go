package get_available_slots

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// UseCase use case для получения свободного времени записи
type UseCase struct {
	salonID         uuid.UUID
	location        *time.Location
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	salonID uuid.UUID,
	location *time.Location,
	appointmentRepo AppointmentRepository,
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
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute выполняет use case получения свободного времени
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	raw := strings.TrimSpace(req.Date)

	// 1. Пустая дата: выбирать еще нечего
	if raw == "" {
		return &Response{Slots: []Slot{}}, nil
	}

	// 2. Разбираем дату в часовом поясе салона
	date, err := time.ParseInLocation(domain.DateFormat, raw, uc.location)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid date %q", raw)
		return nil, ErrInvalidDate
	}

	uc.logger.Info("GetAvailableSlots: salon=%s, date=%s", uc.salonID, raw)

	// 3. Текущее время берется только с сервера
	now := uc.timeProvider.Now().In(uc.location)

	// 4. Загружаем занятость на дату
	counts, err := uc.appointmentRepo.CountByTime(ctx, uc.salonID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to count appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to count appointments: %v", ErrInternal, err)
	}

	// 5. Вычисляем свободное время
	available := ComputeAvailableSlots(date, counts, now)

	slots := make([]Slot, 0, len(available))
	for _, t := range available {
		slots = append(slots, Slot{
			Time:      t,
			Label:     t.Format12h(),
			Remaining: remaining(counts, t),
		})
	}

	uc.logger.Info("GetAvailableSlots: %d slots available on %s", len(slots), raw)

	return &Response{
		Date:  date.Format(domain.DateFormat),
		Slots: slots,
	}, nil
}
