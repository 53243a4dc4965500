package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	FirstName string `json:"firstName" validate:"required,max=5"`
	Email     string `json:"email" validate:"omitempty,email"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(sample{FirstName: "Jane"}))

	err := v.Struct(sample{})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "firstName", verr.Field)
	assert.Equal(t, "is required", verr.Message)
	assert.ErrorIs(t, err, ErrValidation)

	err = v.Struct(sample{FirstName: "Jane", Email: "nope"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Field)
}

func TestValidator_IsEmail(t *testing.T) {
	v := New()
	assert.True(t, v.IsEmail("jane@example.com"))
	assert.False(t, v.IsEmail(""))
	assert.False(t, v.IsEmail("jane@"))
}
