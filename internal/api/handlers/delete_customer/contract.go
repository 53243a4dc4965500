package delete_customer

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/service/customers/models"
)

type CustomerService interface {
	Delete(ctx context.Context, salonID uuid.UUID, req models.DeleteCustomerRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
