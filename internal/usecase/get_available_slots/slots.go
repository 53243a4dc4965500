package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ComputeAvailableSlots возвращает время начала записи, доступное на дату date.
// Сетка с шагом 30 минут от открытия до последнего часа начала включительно (с :30).
// Для сегодняшней даты время раньше now + 120 минут исключается.
// Время с количеством записей не меньше вместимости исключается.
// Функция чистая: одинаковые входные данные дают одинаковый результат.
func ComputeAvailableSlots(date time.Time, counts map[types.TimeString]int, now time.Time) []types.TimeString {
	result := make([]types.TimeString, 0)
	if date.IsZero() {
		return result
	}

	loc := date.Location()
	day := domain.DateOnly(date, loc)
	today := domain.DateOnly(now, loc)

	// Прошедшие даты и даты за горизонтом записи не показываем
	if !domain.IsBookableDate(day, today) {
		return result
	}

	cutoff := now.Add(domain.LeadTimeMinutes * time.Minute)
	sameDay := day.Equal(today)

	for _, slot := range generateGrid(day.Weekday()) {
		if sameDay && slot.On(day, loc).Before(cutoff) {
			continue
		}
		s := domain.Slot{StartTime: slot, Booked: counts[slot], Capacity: domain.SlotCapacity}
		if s.IsFull() {
			continue
		}
		result = append(result, slot)
	}

	return result
}

// generateGrid генерирует все время начала для дня недели
func generateGrid(weekday time.Weekday) []types.TimeString {
	first, last := domain.GridBounds(weekday)

	grid := make([]types.TimeString, 0, 24)
	for slot := first; !slot.IsAfter(last); {
		grid = append(grid, slot)
		next, err := slot.AddMinutes(domain.SlotStepMinutes)
		if err != nil {
			break
		}
		slot = next
	}

	return grid
}

// remaining количество свободных мест на время
func remaining(counts map[types.TimeString]int, slot types.TimeString) int {
	s := domain.Slot{StartTime: slot, Booked: counts[slot], Capacity: domain.SlotCapacity}
	return s.Remaining()
}
