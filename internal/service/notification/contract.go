package notification

import (
	"context"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Logger интерфейс логгера
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MetricsRecorder учет исходов доставки (*metrics.Metrics)
type MetricsRecorder interface {
	ObserveNotification(channel string, err error)
}

// Channel канал доставки уведомления
type Channel interface {
	Name() string
	Deliver(ctx context.Context, msg Message) error
}

// EmailJSSender клиент EmailJS (*emailjs.Client)
type EmailJSSender interface {
	Send(ctx context.Context, templateID string, params map[string]string) error
}

// SendGridClient клиент SendGrid (*sendgrid.Client)
type SendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SMSCreator API сообщений Twilio (twilio.RestClient.Api)
type SMSCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}
