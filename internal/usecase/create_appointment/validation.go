package create_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/phone"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
	"github.com/m04kA/SMC-SalonBooking/pkg/validation"
)

// validateRequest проверяет форму и приводит значения к каноничному виду.
// Время проверяется по серверному now: сетка, часы работы и минимальный запас 120 минут.
func validateRequest(v *validation.Validator, req *Request, now time.Time, loc *time.Location) (*form, error) {
	trimmed := Request{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Tech:      strings.TrimSpace(req.Tech),
		Message:   strings.TrimSpace(req.Message),
		Date:      strings.TrimSpace(req.Date),
		Time:      strings.TrimSpace(req.Time),
	}

	if err := v.Struct(&trimmed); err != nil {
		return nil, err
	}

	digits, err := phone.Normalize(trimmed.Phone)
	if err != nil {
		return nil, validation.NewError("phone", "must be a 10-digit phone number")
	}

	date, err := time.ParseInLocation(domain.DateFormat, trimmed.Date, loc)
	if err != nil {
		return nil, validation.NewError("date", "must be in YYYY-MM-DD format")
	}

	today := domain.DateOnly(now, loc)
	if !domain.IsBookableDate(date, today) {
		return nil, validation.NewError("date", fmt.Sprintf("must be between today and %s", domain.BookingHorizon(today).Format(domain.DateFormat)))
	}

	slot, err := types.NormalizeTime(trimmed.Time)
	if err != nil {
		return nil, validation.NewError("time", "must be in HH:MM format")
	}

	if !onGrid(slot, date.Weekday()) {
		return nil, validation.NewError("time", "is not an available appointment time")
	}

	startsAt := slot.On(date, loc)
	if startsAt.Before(now.Add(domain.LeadTimeMinutes * time.Minute)) {
		return nil, validation.NewError("time", fmt.Sprintf("must be at least %d minutes from now", domain.LeadTimeMinutes))
	}

	return &form{
		FirstName: domain.Capitalize(trimmed.FirstName),
		LastName:  domain.Capitalize(trimmed.LastName),
		Phone:     digits,
		Email:     trimmed.Email,
		Tech:      domain.Capitalize(trimmed.Tech),
		Message:   trimmed.Message,
		Date:      date,
		Time:      slot,
		StartsAt:  startsAt,
	}, nil
}

// onGrid проверяет, что время лежит на 30-минутной сетке в часы работы
func onGrid(t types.TimeString, weekday time.Weekday) bool {
	first, last := domain.GridBounds(weekday)
	if t.IsBefore(first) || t.IsAfter(last) {
		return false
	}
	if t.Minute()%domain.SlotStepMinutes != 0 {
		return false
	}
	return strings.HasSuffix(t.String(), ":00")
}
