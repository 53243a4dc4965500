package domain

// Booking rules
const (
	SlotCapacity    = 5   // appointments allowed per (date, time)
	SlotStepMinutes = 30  // slot grid
	LeadTimeMinutes = 120 // minimum notice for same-day bookings
)

// Business hours: first and last start hour. The last hour's :30 mark is bookable too.
const (
	WeekdayOpenHour      = 10
	WeekdayLastStartHour = 18
	SundayOpenHour       = 12
	SundayLastStartHour  = 17
)

// Placeholders for missing customer data
const (
	PlaceholderFirstName = "Guest"
	PlaceholderLastName  = "Customer"
	EmailPlaceholder     = "N/A"
)

// Field limits
const (
	MaxNameLength    = 100
	MaxTechLength    = 100
	MaxMessageLength = 1000
	MaxNotesLength   = 2000
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
