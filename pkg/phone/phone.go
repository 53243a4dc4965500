package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion регион для разбора номеров без кода страны
const DefaultRegion = "US"

// ErrInvalidPhone возвращается, если номер не приводится к 10 цифрам
var ErrInvalidPhone = errors.New("phone: must be a 10-digit number")

// Digits оставляет в строке только цифры
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize приводит номер к 10 цифрам национального формата.
// Допускается ведущий код страны 1 (11 цифр).
func Normalize(raw string) (string, error) {
	d := Digits(raw)
	if len(d) == 11 && strings.HasPrefix(d, "1") {
		d = d[1:]
	}
	if len(d) != 10 {
		return "", ErrInvalidPhone
	}
	return d, nil
}

// E164 форматирует номер для доставки SMS: "+14055551234"
func E164(raw string) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		num, err := phonenumbers.Parse(strings.TrimSpace(raw), DefaultRegion)
		if err != nil {
			return "", ErrInvalidPhone
		}
		return phonenumbers.Format(num, phonenumbers.E164), nil
	}

	digits, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	num, err := phonenumbers.Parse(digits, DefaultRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Display форматирует 10 цифр как "(405) 555-1234"; иначе возвращает вход без изменений
func Display(digits string) string {
	if len(digits) != 10 {
		return digits
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}
