package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAdminAuth(t *testing.T) {
	h := AdminAuth("s3cret", logger.NewNop())(okHandler)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "valid token", token: "s3cret", status: http.StatusOK},
		{name: "wrong token", token: "guess", status: http.StatusUnauthorized},
		{name: "missing token", token: "", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/appointments", nil)
			if tt.token != "" {
				r.Header.Set(AdminTokenHeader, tt.token)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, r)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAdminAuth_EmptyConfiguredToken(t *testing.T) {
	h := AdminAuth("", logger.NewNop())(okHandler)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/appointments", nil)
	r.Header.Set(AdminTokenHeader, "")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRateLimiter_LimitsPerClient(t *testing.T) {
	mr, rdb := newRedis(t)
	h := NewRateLimiter(rdb, 2, time.Minute, nil, logger.NewNop()).Middleware(okHandler)

	call := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/available-slots", nil)
		r.RemoteAddr = ip + ":5000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)

	blocked := call("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, call("10.0.0.2").Code, "other clients are not affected")

	// окно истекло
	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)
}

func TestRateLimiter_FailOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	h := NewRateLimiter(rdb, 1, time.Minute, nil, logger.NewNop()).Middleware(okHandler)
	mr.Close()

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.1"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		remote  string
		fwd     string
		trusted []*net.IPNet
		want    string
	}{
		{name: "direct client", remote: "198.51.100.7:1234", want: "198.51.100.7"},
		{name: "forwarded header ignored without trusted proxies", remote: "198.51.100.7:1234", fwd: "203.0.113.5", want: "198.51.100.7"},
		{name: "forwarded header from untrusted peer ignored", remote: "198.51.100.7:1234", fwd: "203.0.113.5", trusted: trusted, want: "198.51.100.7"},
		{name: "trusted proxy", remote: "10.1.2.3:1234", fwd: "203.0.113.5", trusted: trusted, want: "203.0.113.5"},
		{name: "spoofed leftmost entry skipped", remote: "10.1.2.3:1234", fwd: "1.1.1.1, 203.0.113.5, 10.0.0.9", trusted: trusted, want: "203.0.113.5"},
		{name: "single trusted ip", remote: "192.0.2.1:80", fwd: "203.0.113.8", trusted: trusted, want: "203.0.113.8"},
		{name: "trusted proxy without header", remote: "10.1.2.3:1234", trusted: trusted, want: "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.fwd != "" {
				r.Header.Set("X-Forwarded-For", tt.fwd)
			}
			assert.Equal(t, tt.want, ClientIP(r, tt.trusted))
		})
	}
}

func TestRateLimiter_ForwardedHeaderCannotBypassLimit(t *testing.T) {
	_, rdb := newRedis(t)
	h := NewRateLimiter(rdb, 1, time.Minute, nil, logger.NewNop()).Middleware(okHandler)

	call := func(fwd string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", nil)
		r.RemoteAddr = "198.51.100.7:5000"
		r.Header.Set("X-Forwarded-For", fwd)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("203.0.113.2"))
}

func TestParseTrustedProxies_Invalid(t *testing.T) {
	_, err := ParseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)

	_, err = ParseTrustedProxies([]string{"10.0.0.0/33"})
	assert.Error(t, err)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/api/v1/admin/appointments/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/appointments/"+strings.Repeat("a", 8), nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/admin/appointments/{id}", "404")))
}
