package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axalapp/claims-api-service/internal/config"
	"github.com/axalapp/claims-api-service/internal/observability/tracing"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestTracingReusesCallerRequestId(t *testing.T) {
	var seen string
	h := TracingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(tracing.TraceIdKey).(string)
	}))

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/v1/claims", nil)
	req.Header.Set(RequestIdHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, seen)
	assert.Equal(t, id, rec.Header().Get(RequestIdHeader))

	req = httptest.NewRequest(http.MethodGet, "/v1/claims", nil)
	req.Header.Set(RequestIdHeader, "not-a-uuid\r\n")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.NotEqual(t, "not-a-uuid\r\n", seen)
	_, err := uuid.Parse(rec.Header().Get(RequestIdHeader))
	assert.NoError(t, err)
}

func TestContentLengthRejectsLargeBodies(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{MaxContentLength: 8}}
	h := ContentLengthMiddleware(cfg)(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(`{"user_address":"0x"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitOnlyAppliesToWrites(t *testing.T) {
	h := RateLimitMiddleware(NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}))(ok)

	do := func(method string) int {
		req := httptest.NewRequest(method, "/dispute", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do(http.MethodPost))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost))
	assert.Equal(t, http.StatusOK, do(http.MethodGet))
}

func TestSecurityHeadersOnApiRoutes(t *testing.T) {
	h := SecurityHeadersMiddleware()(ok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/claims", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, apiContentSecurityPolicy, rec.Header().Get("Content-Security-Policy"))
}
