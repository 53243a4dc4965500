package notification

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/m04kA/SMC-SalonBooking/pkg/phone"
)

// EmailJSChannel доставка через шаблоны EmailJS
type EmailJSChannel struct {
	client    EmailJSSender
	templates map[Template]string
}

// NewEmailJSChannel создает канал EmailJS; templates сопоставляет шаблон с template_id EmailJS
func NewEmailJSChannel(client EmailJSSender, templates map[Template]string) *EmailJSChannel {
	return &EmailJSChannel{client: client, templates: templates}
}

func (c *EmailJSChannel) Name() string { return "emailjs" }

func (c *EmailJSChannel) Deliver(ctx context.Context, msg Message) error {
	templateID, ok := c.templates[msg.Template]
	if !ok || templateID == "" {
		return fmt.Errorf("%w: emailjs template for %s is not configured", ErrDelivery, msg.Template)
	}
	if err := c.client.Send(ctx, templateID, msg.Params); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// SendGridChannel доставка через SendGrid: сводка в ящик салона и подтверждение клиенту
type SendGridChannel struct {
	client    SendGridClient
	fromEmail string
	fromName  string
	inbox     string
}

// NewSendGridChannel создает канал SendGrid
func NewSendGridChannel(client SendGridClient, fromEmail, fromName, inbox string) *SendGridChannel {
	return &SendGridChannel{client: client, fromEmail: fromEmail, fromName: fromName, inbox: inbox}
}

func (c *SendGridChannel) Name() string { return "sendgrid" }

func (c *SendGridChannel) Deliver(ctx context.Context, msg Message) error {
	from := mail.NewEmail(c.fromName, c.fromEmail)
	p := msg.Params

	if c.inbox != "" {
		subject := fmt.Sprintf("New appointment: %s %s on %s at %s", p["firstName"], p["lastName"], p["date"], p["time"])
		if err := c.send(ctx, newEmail(from, subject, mail.NewEmail(c.fromName, c.inbox), salonSummary(p))); err != nil {
			return err
		}
	}

	if msg.Template != TemplateConfirmation {
		return nil
	}

	to := mail.NewEmail(p["firstName"]+" "+p["lastName"], p["email"])
	subject := fmt.Sprintf("Your appointment on %s at %s", p["date"], p["time"])
	return c.send(ctx, newEmail(from, subject, to, customerConfirmation(p)))
}

func (c *SendGridChannel) send(ctx context.Context, message *mail.SGMailV3) error {
	resp, err := c.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: sendgrid: %v", ErrDelivery, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: sendgrid returned status %d: %s", ErrDelivery, resp.StatusCode, resp.Body)
	}
	return nil
}

func newEmail(from *mail.Email, subject string, to *mail.Email, text string) *mail.SGMailV3 {
	htmlBody := strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
	return mail.NewSingleEmail(from, subject, to, text, htmlBody)
}

func salonSummary(p map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s %s\n", p["firstName"], p["lastName"])
	fmt.Fprintf(&b, "Phone: %s\n", phone.Display(p["phone"]))
	fmt.Fprintf(&b, "Email: %s\n", p["email"])
	fmt.Fprintf(&b, "Date: %s\n", p["date"])
	fmt.Fprintf(&b, "Time: %s\n", p["time"])
	if p["tech"] != "" {
		fmt.Fprintf(&b, "Tech: %s\n", p["tech"])
	}
	if p["message"] != "" {
		fmt.Fprintf(&b, "Message: %s\n", p["message"])
	}
	if p["customerId"] != "" {
		fmt.Fprintf(&b, "Customer ID: %s\n", p["customerId"])
	}
	return b.String()
}

func customerConfirmation(p map[string]string) string {
	return fmt.Sprintf("Hi %s,\n\nYour appointment is booked for %s at %s.\nSee you soon!\n", p["firstName"], p["date"], p["time"])
}

// SMSChannel SMS-подтверждение клиенту через Twilio
type SMSChannel struct {
	api  SMSCreator
	from string
}

// NewSMSChannel создает канал Twilio SMS
func NewSMSChannel(api SMSCreator, from string) *SMSChannel {
	return &SMSChannel{api: api, from: from}
}

func (c *SMSChannel) Name() string { return "sms" }

func (c *SMSChannel) Deliver(ctx context.Context, msg Message) error {
	to, err := phone.E164(msg.Params["phone"])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoRecipient, err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(fmt.Sprintf("Hi %s, your appointment is confirmed for %s at %s.",
		msg.Params["firstName"], msg.Params["date"], msg.Params["time"]))

	// CreateMessage не принимает контекст: ждем ответ не дольше дедлайна доставки,
	// сам HTTP запрос ограничен таймаутом клиента Twilio
	done := make(chan error, 1)
	go func() {
		_, err := c.api.CreateMessage(params)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: twilio: %v", ErrDelivery, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: twilio: %v", ErrDelivery, ctx.Err())
	}
}
