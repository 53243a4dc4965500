package get_booking_rules

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func TestHandle(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	// 03:00 UTC 19 октября еще 18 октября по времени салона
	h := NewHandler(loc, fixedTime{now: time.Date(2026, time.October, 19, 3, 0, 0, 0, time.UTC)})

	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/booking-rules", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp BookingRulesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, 5, resp.SlotCapacity)
	assert.Equal(t, 120, resp.LeadTimeMinutes)
	assert.Equal(t, "2026-10-18", resp.Today)
	assert.Equal(t, "2027-12-31", resp.BookableUntil)
	require.Len(t, resp.BusinessHours, 7)
	assert.Equal(t, DaySchedule{Day: "monday", FirstStart: "10:00", LastStart: "18:30"}, resp.BusinessHours[0])
	assert.Equal(t, DaySchedule{Day: "sunday", FirstStart: "12:00", LastStart: "17:30"}, resp.BusinessHours[6])
}
