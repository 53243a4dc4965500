package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Credentials ключи аккаунта EmailJS
type Credentials struct {
	ServiceID  string
	PublicKey  string
	PrivateKey string
}

// Client клиент REST API EmailJS
type Client struct {
	url        string
	creds      Credentials
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента EmailJS
func NewClient(url string, creds Credentials, timeout time.Duration, log Logger) *Client {
	return &Client{
		url:   url,
		creds: creds,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет письмо по шаблону templateID с параметрами params
func (c *Client) Send(ctx context.Context, templateID string, params map[string]string) error {
	payload := SendRequest{
		ServiceID:      c.creds.ServiceID,
		TemplateID:     templateID,
		UserID:         c.creds.PublicKey,
		TemplateParams: params,
		AccessToken:    c.creds.PrivateKey,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// EmailJS отвечает текстом "OK" или текстом ошибки
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode == http.StatusOK:
		c.log.Info("EmailJS: template %s sent", templateID)
		return nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(respBody))
	default:
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, string(respBody))
	}
}
