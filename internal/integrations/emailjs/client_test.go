package emailjs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

func TestClient_Send(t *testing.T) {
	var got SendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, Credentials{ServiceID: "svc", PublicKey: "pub", PrivateKey: "priv"}, time.Second, logger.NewNop())

	err := c.Send(context.Background(), "template_confirmation", map[string]string{"firstName": "Jane"})

	require.NoError(t, err)
	assert.Equal(t, "svc", got.ServiceID)
	assert.Equal(t, "template_confirmation", got.TemplateID)
	assert.Equal(t, "pub", got.UserID)
	assert.Equal(t, "priv", got.AccessToken)
	assert.Equal(t, "Jane", got.TemplateParams["firstName"])
}

func TestClient_Send_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "bad template", status: http.StatusBadRequest, wantErr: ErrRejected},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ErrRejected},
		{name: "server error", status: http.StatusBadGateway, wantErr: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "The template ID is invalid", tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, Credentials{ServiceID: "svc"}, time.Second, logger.NewNop())
			err := c.Send(context.Background(), "missing", nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
