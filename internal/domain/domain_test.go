package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"jane":    "Jane",
		"jANE":    "Jane",
		"  mary ": "Mary",
		"":        "",
		"élodie":  "Élodie",
		"o'BRIEN": "O'brien",
	}
	for in, want := range tests {
		assert.Equal(t, want, Capitalize(in), in)
	}
}

func TestBusinessHours(t *testing.T) {
	open, last := BusinessHours(time.Sunday)
	assert.Equal(t, 12, open)
	assert.Equal(t, 17, last)

	open, last = BusinessHours(time.Monday)
	assert.Equal(t, 10, open)
	assert.Equal(t, 18, last)
}

func TestGridBounds(t *testing.T) {
	first, last := GridBounds(time.Sunday)
	assert.Equal(t, types.TimeString("12:00:00"), first)
	assert.Equal(t, types.TimeString("17:30:00"), last)

	first, last = GridBounds(time.Wednesday)
	assert.Equal(t, types.TimeString("10:00:00"), first)
	assert.Equal(t, types.TimeString("18:30:00"), last)
}

func TestIsBookableDate(t *testing.T) {
	loc := time.UTC
	today := time.Date(2026, time.October, 18, 0, 0, 0, 0, loc)

	assert.True(t, IsBookableDate(today, today))
	assert.True(t, IsBookableDate(time.Date(2027, time.December, 31, 0, 0, 0, 0, loc), today))
	assert.False(t, IsBookableDate(time.Date(2028, time.January, 1, 0, 0, 0, 0, loc), today))
	assert.False(t, IsBookableDate(today.AddDate(0, 0, -1), today))
}

func TestCustomer_VisitIsNewer(t *testing.T) {
	visit := time.Date(2026, time.October, 20, 10, 0, 0, 0, time.UTC)

	c := &Customer{}
	assert.True(t, c.VisitIsNewer(visit))

	c.LastVisit = &visit
	assert.False(t, c.VisitIsNewer(visit))
	assert.False(t, c.VisitIsNewer(visit.Add(-time.Hour)))
	assert.True(t, c.VisitIsNewer(visit.Add(time.Hour)))
}

func TestSlot_Remaining(t *testing.T) {
	s := Slot{Booked: 3, Capacity: SlotCapacity}
	assert.Equal(t, 2, s.Remaining())
	assert.False(t, s.IsFull())

	s.Booked = 6
	assert.Equal(t, 0, s.Remaining())
	assert.True(t, s.IsFull())
}
