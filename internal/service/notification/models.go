package notification

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/validation"
)

// Template вариант шаблона уведомления
type Template string

const (
	// TemplateConfirmation у клиента валидный email: письмо-подтверждение
	TemplateConfirmation Template = "confirmation"
	// TemplateNoEmail email не указан или некорректен: уведомляем только салон
	TemplateNoEmail Template = "no_email"
)

// Notification итоговая запись и клиент после успешного бронирования
type Notification struct {
	Appointment *domain.Appointment
	Customer    *domain.Customer
}

// Message подготовленное сообщение для каналов
type Message struct {
	Template    Template
	Params      map[string]string
	Appointment *domain.Appointment
}

var validate = validation.New()

// SelectTemplate выбирает шаблон по валидности email
func SelectTemplate(email string) Template {
	if validate.IsEmail(email) {
		return TemplateConfirmation
	}
	return TemplateNoEmail
}

// BuildParams собирает плоский набор параметров шаблона из записи
func BuildParams(appt *domain.Appointment) map[string]string {
	email := domain.EmailPlaceholder
	if appt.HasEmail() {
		email = *appt.Email
	}

	return map[string]string{
		"firstName": appt.FirstName,
		"lastName":  appt.LastName,
		"email":     email,
		"phone":     appt.Phone,
		"tech":      appt.Tech,
		"message":   appt.Message,
		"date":      appt.Date.Format(domain.DateFormat),
		"time":      appt.Time.Format12h(),
	}
}

// Message готовит сообщение; из карточки клиента в параметры добавляется его id
func (n Notification) Message() Message {
	msg := NewMessage(n.Appointment)
	if n.Customer != nil {
		msg.Params["customerId"] = n.Customer.ID.String()
	}
	return msg
}

// NewMessage готовит сообщение для записи
func NewMessage(appt *domain.Appointment) Message {
	email := ""
	if appt.Email != nil {
		email = *appt.Email
	}
	return Message{
		Template:    SelectTemplate(email),
		Params:      BuildParams(appt),
		Appointment: appt,
	}
}
