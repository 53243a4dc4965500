package create_appointment

import (
	"errors"

	"github.com/m04kA/SMC-SalonBooking/pkg/validation"
)

// ValidationError ошибка конкретного поля формы
type ValidationError = validation.Error

var (
	// ErrValidation признак ошибки валидации (errors.Is)
	ErrValidation = validation.ErrValidation

	// ErrSlotFull возвращается, когда на выбранное время уже нет мест
	ErrSlotFull = errors.New("selected time is fully booked")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
