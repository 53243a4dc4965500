package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Slot represents a bookable 30-minute start time on a date
type Slot struct {
	StartTime types.TimeString
	Booked    int
	Capacity  int
}

// Remaining returns the number of free seats
func (s *Slot) Remaining() int {
	if s.Booked >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Booked
}

// IsFull returns true if the slot has no free seats
func (s *Slot) IsFull() bool {
	return s.Booked >= s.Capacity
}

// BusinessHours returns the first and last start hour for the weekday
func BusinessHours(day time.Weekday) (openHour, lastStartHour int) {
	if day == time.Sunday {
		return SundayOpenHour, SundayLastStartHour
	}
	return WeekdayOpenHour, WeekdayLastStartHour
}

// GridBounds returns the first and the last bookable start time for the weekday.
// The last start is the :30 mark of the last start hour.
func GridBounds(day time.Weekday) (first, last types.TimeString) {
	openHour, lastStartHour := BusinessHours(day)
	first = types.NewTimeString(time.Date(0, 1, 1, openHour, 0, 0, 0, time.UTC))
	last = types.NewTimeString(time.Date(0, 1, 1, lastStartHour, 60-SlotStepMinutes, 0, 0, time.UTC))
	return first, last
}

// DateOnly truncates t to midnight of its calendar date in loc
func DateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// BookingHorizon returns the last bookable date: December 31 of the year after today
func BookingHorizon(today time.Time) time.Time {
	return time.Date(today.Year()+1, time.December, 31, 0, 0, 0, 0, today.Location())
}

// IsBookableDate reports whether date lies between today and the booking horizon (inclusive).
// Both values are expected to be date-only in the same location.
func IsBookableDate(date, today time.Time) bool {
	return !date.Before(today) && !date.After(BookingHorizon(today))
}
