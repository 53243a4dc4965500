package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeFormat каноничный формат времени суток (PostgreSQL TIME(0))
const TimeFormat = "15:04:05"

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, если результат арифметики выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflows the day")
)

// TimeString время суток без даты в формате HH:MM:SS
type TimeString string

// NewTimeString создает TimeString из времени суток t (секунды сохраняются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(TimeFormat))
}

// NormalizeTime дополняет недостающие части нулями: "9:30" -> "09:30:00"
func NormalizeTime(raw string) (TimeString, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidTimeString)
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, raw)
	}

	limits := [3]int{23, 59, 59}
	values := [3]int{}
	for i, p := range parts {
		if p == "" || len(p) > 2 {
			return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, raw)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, raw)
		}
		values[i] = n
	}

	return fromSeconds(values[0]*3600 + values[1]*60 + values[2]), nil
}

func fromSeconds(total int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60))
}

// seconds возвращает количество секунд от полуночи
func (t TimeString) seconds() (int, error) {
	parsed, err := time.Parse(TimeFormat, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*3600 + parsed.Minute()*60 + parsed.Second(), nil
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет каноничный формат HH:MM:SS
func (t TimeString) Validate() error {
	_, err := t.seconds()
	return err
}

// Hour возвращает часы (0 для некорректного значения)
func (t TimeString) Hour() int {
	s, _ := t.seconds()
	return s / 3600
}

// Minute возвращает минуты (0 для некорректного значения)
func (t TimeString) Minute() int {
	s, _ := t.seconds()
	return (s % 3600) / 60
}

// AddMinutes прибавляет минуты; результат должен остаться в пределах суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	s, err := t.seconds()
	if err != nil {
		return "", err
	}
	total := s + minutes*60
	if total < 0 || total >= 24*3600 {
		return "", ErrTimeOverflow
	}
	return fromSeconds(total), nil
}

// IsBefore сравнивает строго "раньше"
func (t TimeString) IsBefore(other TimeString) bool {
	return t.compare(other) < 0
}

// IsAfter сравнивает строго "позже"
func (t TimeString) IsAfter(other TimeString) bool {
	return t.compare(other) > 0
}

func (t TimeString) compare(other TimeString) int {
	a, _ := t.seconds()
	b, _ := other.seconds()
	return a - b
}

// On возвращает момент времени: дата date в локации loc плюс это время суток
func (t TimeString) On(date time.Time, loc *time.Location) time.Time {
	s, _ := t.seconds()
	y, m, d := date.Date()
	return time.Date(y, m, d, s/3600, (s%3600)/60, s%60, 0, loc)
}

// Format12h форматирует время для отображения: "3:30 PM"
func (t TimeString) Format12h() string {
	hour, minute := t.Hour(), t.Minute()
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, ampm)
}

// String возвращает время в формате HH:MM:SS
func (t TimeString) String() string {
	return string(t)
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan реализует sql.Scanner; PostgreSQL TIME приходит строкой или time.Time
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		parsed, err := NormalizeTime(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := NormalizeTime(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}
}
