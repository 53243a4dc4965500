package lookup_customer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/customers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/customers/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	result *models.LookupResult
	err    error
}

func (f *fakeService) LookupByPhone(ctx context.Context, salonID uuid.UUID, rawPhone string) (*models.LookupResult, error) {
	return f.result, f.err
}

func lookup(h *Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodGet, "/api/v1/customers/lookup?phone=4055551234", nil))
	return w
}

func TestHandle_Found(t *testing.T) {
	h := NewHandler(&fakeService{result: &models.LookupResult{FirstName: "Jane", LastName: "Doe"}}, uuid.New(), logger.NewNop())

	w := lookup(h)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.LookupResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Jane", resp.FirstName)
	assert.Nil(t, resp.Email)
}

func TestHandle_NotFound(t *testing.T) {
	h := NewHandler(&fakeService{err: customers.ErrCustomerNotFound}, uuid.New(), logger.NewNop())

	assert.Equal(t, http.StatusNotFound, lookup(h).Code)
}

func TestHandle_InvalidPhone(t *testing.T) {
	h := NewHandler(&fakeService{err: customers.ErrInvalidPhone}, uuid.New(), logger.NewNop())

	w := lookup(h)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "phone", resp.Field)
}
