package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a salon client identified by phone number within a salon
type Customer struct {
	ID             uuid.UUID
	SalonID        uuid.UUID
	Phone          string // 10 national digits, unique per salon
	FirstName      string
	LastName       string
	Email          *string
	MarketingOptIn bool
	Notes          *string
	LastVisit      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasEmail returns true if an email is on file
func (c *Customer) HasEmail() bool {
	return c.Email != nil && *c.Email != ""
}

// VisitIsNewer reports whether visitAt should replace the stored last visit.
// Last visit only moves forward.
func (c *Customer) VisitIsNewer(visitAt time.Time) bool {
	return c.LastVisit == nil || c.LastVisit.Before(visitAt)
}
