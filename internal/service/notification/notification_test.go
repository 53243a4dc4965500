package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

func testAppointment(email *string) *domain.Appointment {
	return &domain.Appointment{
		ID:        uuid.New(),
		Date:      time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
		Time:      "14:30:00",
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "4055551234",
		Email:     email,
		Tech:      "Anna",
		Message:   "gel please",
	}
}

func TestSelectTemplate(t *testing.T) {
	assert.Equal(t, TemplateConfirmation, SelectTemplate("jane@example.com"))
	assert.Equal(t, TemplateNoEmail, SelectTemplate(""))
	assert.Equal(t, TemplateNoEmail, SelectTemplate("jane@"))
	assert.Equal(t, TemplateNoEmail, SelectTemplate("not an email"))
}

func TestBuildParams(t *testing.T) {
	params := BuildParams(testAppointment(nil))

	assert.Equal(t, map[string]string{
		"firstName": "Jane",
		"lastName":  "Doe",
		"email":     "N/A",
		"phone":     "4055551234",
		"tech":      "Anna",
		"message":   "gel please",
		"date":      "2026-10-19",
		"time":      "2:30 PM",
	}, params)
}

type fakeChannel struct {
	name string
	err  error

	mu   sync.Mutex
	msgs []Message
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Deliver(ctx context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return f.err
}

func (f *fakeChannel) received() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.msgs...)
}

type countingMetrics struct {
	mu     sync.Mutex
	failed int
	sent   int
}

func (m *countingMetrics) ObserveNotification(channel string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.failed++
		return
	}
	m.sent++
}

func TestDispatcher_Notify(t *testing.T) {
	broken := &fakeChannel{name: "broken", err: errors.New("smtp down")}
	ok := &fakeChannel{name: "ok"}
	m := &countingMetrics{}

	d := NewDispatcher([]Channel{broken, ok}, time.Second, logger.NewNop(), m)

	// отмена контекста запроса не должна прерывать доставку
	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, Notification{Appointment: testAppointment(ptr.Ptr("jane@example.com"))})
	cancel()
	d.Close()

	require.Len(t, ok.received(), 1)
	assert.Equal(t, TemplateConfirmation, ok.received()[0].Template)
	require.Len(t, broken.received(), 1)
	assert.Equal(t, 1, m.sent)
	assert.Equal(t, 1, m.failed)
}

func TestNotification_MessageIncludesCustomer(t *testing.T) {
	customer := &domain.Customer{ID: uuid.New(), Phone: "4055551234"}
	n := Notification{Appointment: testAppointment(nil), Customer: customer}

	msg := n.Message()

	assert.Equal(t, TemplateNoEmail, msg.Template)
	assert.Equal(t, customer.ID.String(), msg.Params["customerId"])
	assert.Contains(t, salonSummary(msg.Params), "Customer ID: "+customer.ID.String())

	_, ok := Notification{Appointment: testAppointment(nil)}.Message().Params["customerId"]
	assert.False(t, ok)
}

func TestDispatcher_NotifyAfterClose(t *testing.T) {
	ch := &fakeChannel{name: "ok"}
	d := NewDispatcher([]Channel{ch}, time.Second, logger.NewNop(), nil)
	d.Close()

	d.Notify(context.Background(), Notification{Appointment: testAppointment(nil)})

	assert.Empty(t, ch.received())
}

type fakeEmailJS struct {
	templateID string
	params     map[string]string
}

func (f *fakeEmailJS) Send(ctx context.Context, templateID string, params map[string]string) error {
	f.templateID = templateID
	f.params = params
	return nil
}

func TestEmailJSChannel(t *testing.T) {
	client := &fakeEmailJS{}
	ch := NewEmailJSChannel(client, map[Template]string{
		TemplateConfirmation: "template_valid",
		TemplateNoEmail:      "template_no_email",
	})

	require.NoError(t, ch.Deliver(context.Background(), NewMessage(testAppointment(ptr.Ptr("bad-email")))))
	assert.Equal(t, "template_no_email", client.templateID)
	assert.Equal(t, "bad-email", client.params["email"])
}

type fakeSendGrid struct {
	status int
	sent   []*mail.SGMailV3
}

func (f *fakeSendGrid) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	return &rest.Response{StatusCode: f.status}, nil
}

func TestSendGridChannel(t *testing.T) {
	t.Run("salon inbox and customer", func(t *testing.T) {
		client := &fakeSendGrid{status: 202}
		ch := NewSendGridChannel(client, "bookings@salon.test", "Salon", "frontdesk@salon.test")

		err := ch.Deliver(context.Background(), NewMessage(testAppointment(ptr.Ptr("jane@example.com"))))

		require.NoError(t, err)
		require.Len(t, client.sent, 2)
		assert.Equal(t, "frontdesk@salon.test", client.sent[0].Personalizations[0].To[0].Address)
		assert.Equal(t, "jane@example.com", client.sent[1].Personalizations[0].To[0].Address)
	})

	t.Run("no customer email", func(t *testing.T) {
		client := &fakeSendGrid{status: 202}
		ch := NewSendGridChannel(client, "bookings@salon.test", "Salon", "frontdesk@salon.test")

		require.NoError(t, ch.Deliver(context.Background(), NewMessage(testAppointment(nil))))
		assert.Len(t, client.sent, 1)
	})

	t.Run("error status", func(t *testing.T) {
		client := &fakeSendGrid{status: 401}
		ch := NewSendGridChannel(client, "bookings@salon.test", "Salon", "frontdesk@salon.test")

		err := ch.Deliver(context.Background(), NewMessage(testAppointment(nil)))
		assert.ErrorIs(t, err, ErrDelivery)
	})
}

type fakeSMS struct {
	params *twilioApi.CreateMessageParams
}

func (f *fakeSMS) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	return &twilioApi.ApiV2010Message{}, nil
}

func TestSMSChannel(t *testing.T) {
	api := &fakeSMS{}
	ch := NewSMSChannel(api, "+14055550000")

	require.NoError(t, ch.Deliver(context.Background(), NewMessage(testAppointment(nil))))
	require.NotNil(t, api.params.To)
	assert.Equal(t, "+14055551234", *api.params.To)
	assert.Equal(t, "+14055550000", *api.params.From)
	assert.Contains(t, *api.params.Body, "2:30 PM")
}

type blockingSMS struct {
	release chan struct{}
}

func (b *blockingSMS) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	<-b.release
	return &twilioApi.ApiV2010Message{}, nil
}

func TestSMSChannel_RespectsDeadline(t *testing.T) {
	api := &blockingSMS{release: make(chan struct{})}
	defer close(api.release)
	ch := NewSMSChannel(api, "+14055550000")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := ch.Deliver(ctx, NewMessage(testAppointment(nil)))

	assert.ErrorIs(t, err, ErrDelivery)
	assert.Less(t, time.Since(start), time.Second)
}
