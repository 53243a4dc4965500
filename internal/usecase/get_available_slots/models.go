package get_available_slots

import "github.com/m04kA/SMC-SalonBooking/pkg/types"

// Request модель запроса на получение свободного времени
type Request struct {
	Date string // Дата в формате YYYY-MM-DD; пустая строка дает пустой список
}

// Response модель ответа со списком свободного времени
type Response struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// Slot свободное время начала записи
type Slot struct {
	Time      types.TimeString `json:"time"`      // "15:30:00"
	Label     string           `json:"label"`     // "3:30 PM"
	Remaining int              `json:"remaining"` // свободных мест
}
