package delete_customer

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
	msgInvalidCustomerID = "invalid customer id"
	msgNotFound          = "customer not found"
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

// Handle DELETE /api/v1/admin/customers/{id} или DELETE /api/v1/admin/customers?phone=
// Записи клиента остаются, ссылка на клиента в них обнуляется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := models.DeleteCustomerRequest{Phone: r.URL.Query().Get("phone")}

	if rawID, ok := mux.Vars(r)["id"]; ok {
		id, err := uuid.Parse(rawID)
		if err != nil {
			h.logger.Warn("DELETE /admin/customers - Invalid customer ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidCustomerID)
			return
		}
		req.ID = &id
	}

	if err := h.service.Delete(r.Context(), h.salonID, req); err != nil {
		switch {
		case errors.Is(err, validation.ErrValidation):
			h.logger.Warn("DELETE /admin/customers - Validation failed: %v", err)
			handlers.RespondValidationError(w, err)

		case errors.Is(err, customers.ErrCustomerNotFound):
			h.logger.Warn("DELETE /admin/customers - Customer not found")
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /admin/customers - Failed to delete customer: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/customers - Customer deleted")
	handlers.RespondNoContent(w)
}
