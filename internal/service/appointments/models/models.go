package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AppointmentResponse данные записи для администратора
type AppointmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	Date        string     `json:"date"`        // "2026-10-19"
	Time        string     `json:"time"`        // "14:30:00"
	DisplayTime string     `json:"displayTime"` // "2:30 PM"
	CustomerID  *uuid.UUID `json:"customerId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Phone       string     `json:"phone"`
	Email       *string    `json:"email"`
	Tech        string     `json:"tech"`
	Message     string     `json:"message"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}
	return &AppointmentResponse{
		ID:          a.ID,
		Date:        a.Date.Format(domain.DateFormat),
		Time:        a.Time.String(),
		DisplayTime: a.Time.Format12h(),
		CustomerID:  a.CustomerID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Phone:       a.Phone,
		Email:       a.Email,
		Tech:        a.Tech,
		Message:     a.Message,
		CreatedAt:   a.CreatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}
	for _, a := range list {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}
	return resp
}
