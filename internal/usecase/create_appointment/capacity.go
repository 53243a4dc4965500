package create_appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// checkCapacity перечитывает текущую занятость времени перед записью.
// Быстрая проверка: окончательно вместимость гарантирует ReserveSeat в транзакции.
func (uc *UseCase) checkCapacity(ctx context.Context, date time.Time, t types.TimeString) error {
	count, err := uc.appointmentRepo.CountBySlot(ctx, uc.salonID, date, t)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to count slot %s %s: %v", date.Format(domain.DateFormat), t, err)
		return fmt.Errorf("%w: failed to count slot: %v", ErrInternal, err)
	}

	if count >= domain.SlotCapacity {
		uc.logger.Warn("CreateAppointment: slot %s %s is full, %d/%d taken",
			date.Format(domain.DateFormat), t, count, domain.SlotCapacity)
		return ErrSlotFull
	}

	return nil
}
