package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/validation"
)

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Phone string `json:"phone"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":"4055551234"}`))
	require.NoError(t, DecodeJSON(r, &body))
	assert.Equal(t, "4055551234", body.Phone)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"phone":`))
	assert.Error(t, DecodeJSON(r, &body))
}

func TestRespondValidationError(t *testing.T) {
	w := httptest.NewRecorder()

	RespondValidationError(w, validation.NewError("phone", "must be a 10-digit phone number"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "phone", resp.Field)
	assert.Equal(t, "must be a 10-digit phone number", resp.Message)
}

func TestRespondValidationError_PlainError(t *testing.T) {
	w := httptest.NewRecorder()

	RespondValidationError(w, errors.New("bad input"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp.Field)
	assert.Equal(t, "bad input", resp.Message)
}

func TestRespondInternalError_HidesDetails(t *testing.T) {
	w := httptest.NewRecorder()

	RespondInternalError(w)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), msgInternalError)
}
