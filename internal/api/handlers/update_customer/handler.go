package update_customer

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/customers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/customers/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/validation"
)

const (
	msgInvalidCustomerID  = "invalid customer id"
	msgInvalidRequestBody = "invalid request body"
	msgNothingToUpdate    = "no fields to update"
	msgNotFound           = "customer not found"
	msgDuplicatePhone     = "another customer already uses this phone number"
)

type Handler struct {
	service CustomerService
	salonID uuid.UUID
	logger  Logger
}

func NewHandler(service CustomerService, salonID uuid.UUID, logger Logger) *Handler {
	return &Handler{
		service: service,
		salonID: salonID,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/customers/{id}
// Обновляются только переданные поля
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.logger.Warn("PATCH /admin/customers/{id} - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	var req models.UpdateCustomerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/customers/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	customer, err := h.service.Update(r.Context(), h.salonID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrValidation):
			h.logger.Warn("PATCH /admin/customers/{id} - Validation failed: id=%s, error=%v", id, err)
			handlers.RespondValidationError(w, err)

		case errors.Is(err, customers.ErrNothingToUpdate):
			h.logger.Warn("PATCH /admin/customers/{id} - Nothing to update: id=%s", id)
			handlers.RespondBadRequest(w, msgNothingToUpdate)

		case errors.Is(err, customers.ErrCustomerNotFound):
			h.logger.Warn("PATCH /admin/customers/{id} - Customer not found: id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, customers.ErrDuplicatePhone):
			h.logger.Warn("PATCH /admin/customers/{id} - Duplicate phone: id=%s", id)
			handlers.RespondConflict(w, msgDuplicatePhone)

		default:
			h.logger.Error("PATCH /admin/customers/{id} - Failed to update customer: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/customers/{id} - Customer updated: id=%s", id)
	handlers.RespondJSON(w, http.StatusOK, customer)
}
