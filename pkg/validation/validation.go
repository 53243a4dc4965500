package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation общий признак ошибок валидации (errors.Is)
var ErrValidation = errors.New("validation failed")

// Error ошибка валидации конкретного поля
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewError создает ошибку валидации поля
func NewError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrValidation)
func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

// Validator обертка над go-playground/validator, возвращающая *Error с json-именем поля
type Validator struct {
	validate *validator.Validate
}

// New создает валидатор
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct проверяет структуру по тегам validate; возвращает первую ошибку поля
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return NewError(fe.Field(), message(fe))
}

// IsEmail проверяет формат email
func (v *Validator) IsEmail(email string) bool {
	return v.validate.Var(email, "required,email") == nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain digits only"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
