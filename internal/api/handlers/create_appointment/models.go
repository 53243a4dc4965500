package create_appointment

import (
	createAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model (поля формы записи)
type CreateAppointmentRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Tech      string `json:"tech"`
	Message   string `json:"message"`
	Date      string `json:"date"` // "2026-10-19"
	Time      string `json:"time"` // "10:00" или "10:00:00"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() *createAppointment.Request {
	return &createAppointment.Request{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Email:     r.Email,
		Tech:      r.Tech,
		Message:   r.Message,
		Date:      r.Date,
		Time:      r.Time,
	}
}
