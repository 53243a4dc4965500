package create_customer

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/customers/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/validation"
)

const msgInvalidRequestBody = "invalid request body"

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

// Handle POST /api/v1/admin/customers
// Клиент с тем же телефоном перезаписывается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/customers - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	customer, err := h.service.Create(r.Context(), h.salonID, &req)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrValidation):
			h.logger.Warn("POST /admin/customers - Validation failed: %v", err)
			handlers.RespondValidationError(w, err)

		default:
			h.logger.Error("POST /admin/customers - Failed to save customer: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/customers - Customer saved: id=%s", customer.ID)
	handlers.RespondJSON(w, http.StatusCreated, customer)
}
