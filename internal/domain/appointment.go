package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Appointment represents a booked visit.
// Name, phone and email are a snapshot taken at booking time and are never
// rewritten by later customer edits.
type Appointment struct {
	ID         uuid.UUID
	SalonID    uuid.UUID
	Date       time.Time // date only, salon wall clock
	Time       types.TimeString
	CustomerID *uuid.UUID // nil after the customer was deleted

	FirstName string
	LastName  string
	Phone     string // 10 national digits
	Email     *string
	Tech      string
	Message   string

	CreatedAt time.Time
}

// StartsAt returns the appointment start in the given location
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	return a.Time.On(a.Date, loc)
}

// HasEmail returns true if the snapshot carries an email address
func (a *Appointment) HasEmail() bool {
	return a.Email != nil && *a.Email != ""
}
