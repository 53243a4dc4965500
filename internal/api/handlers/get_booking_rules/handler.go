package get_booking_rules

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type Handler struct {
	location     *time.Location
	timeProvider TimeProvider
}

func NewHandler(location *time.Location, timeProvider TimeProvider) *Handler {
	return &Handler{
		location:     location,
		timeProvider: timeProvider,
	}
}

// Handle GET /api/v1/booking-rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	today := domain.DateOnly(h.timeProvider.Now(), h.location)

	handlers.RespondJSON(w, http.StatusOK, BookingRulesResponse{
		SlotCapacity:    domain.SlotCapacity,
		SlotStepMinutes: domain.SlotStepMinutes,
		LeadTimeMinutes: domain.LeadTimeMinutes,
		Timezone:        h.location.String(),
		Today:           today.Format(domain.DateFormat),
		BookableUntil:   domain.BookingHorizon(today).Format(domain.DateFormat),
		BusinessHours:   businessHours(),
	})
}

// businessHours расписание с понедельника по воскресенье
func businessHours() []DaySchedule {
	days := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
	}

	out := make([]DaySchedule, 0, len(days))
	for _, day := range days {
		open, last := domain.BusinessHours(day)
		out = append(out, DaySchedule{
			Day:        strings.ToLower(day.String()),
			FirstStart: fmt.Sprintf("%02d:00", open),
			LastStart:  fmt.Sprintf("%02d:%02d", last, 60-domain.SlotStepMinutes),
		})
	}
	return out
}
