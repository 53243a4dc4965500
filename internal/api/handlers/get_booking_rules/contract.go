package get_booking_rules

import "time"

// TimeProvider источник текущего времени
type TimeProvider interface {
	Now() time.Time
}
