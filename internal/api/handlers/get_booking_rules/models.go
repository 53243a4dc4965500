package get_booking_rules

// BookingRulesResponse правила записи для формы
type BookingRulesResponse struct {
	SlotCapacity    int           `json:"slotCapacity"`
	SlotStepMinutes int           `json:"slotStepMinutes"`
	LeadTimeMinutes int           `json:"leadTimeMinutes"`
	Timezone        string        `json:"timezone"`
	Today           string        `json:"today"`
	BookableUntil   string        `json:"bookableUntil"`
	BusinessHours   []DaySchedule `json:"businessHours"`
}

// DaySchedule часы начала записи в день недели
type DaySchedule struct {
	Day        string `json:"day"`
	FirstStart string `json:"firstStart"`
	LastStart  string `json:"lastStart"`
}
