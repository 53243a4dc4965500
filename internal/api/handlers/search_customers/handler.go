package search_customers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
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

// Handle GET /api/v1/admin/customers/search?q=
// Короткий запрос (меньше 2 символов) дает пустой список
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	results, err := h.service.Search(r.Context(), h.salonID, q)
	if err != nil {
		h.logger.Error("GET /admin/customers/search - Failed to search customers: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/customers/search - %d customers found", len(results))
	handlers.RespondJSON(w, http.StatusOK, results)
}
