package lookup_customer

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/customers"
	"github.com/m04kA/SMC-SalonBooking/pkg/validation"
)

const (
	msgInvalidPhone = "must be a 10-digit phone number"
	msgNotFound     = "no customer with this phone number"
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

// Handle GET /api/v1/customers/lookup?phone=
// Данные постоянного клиента для предзаполнения формы
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")

	result, err := h.service.LookupByPhone(r.Context(), h.salonID, phone)
	if err != nil {
		switch {
		case errors.Is(err, customers.ErrInvalidPhone):
			h.logger.Warn("GET /customers/lookup - Invalid phone")
			handlers.RespondValidationError(w, validation.NewError("phone", msgInvalidPhone))

		case errors.Is(err, customers.ErrCustomerNotFound):
			h.logger.Info("GET /customers/lookup - Customer not found")
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /customers/lookup - Failed to look up customer: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /customers/lookup - Customer found")
	handlers.RespondJSON(w, http.StatusOK, result)
}
