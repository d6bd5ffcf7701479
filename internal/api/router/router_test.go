package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/linkpage/internal/leads"
	"github.com/wolfman30/linkpage/internal/notify"
	"github.com/wolfman30/linkpage/pkg/logging"
)

type countingSender struct {
	calls int
	last  notify.EmailMessage
}

func (s *countingSender) Send(_ context.Context, msg notify.EmailMessage) (string, error) {
	s.calls++
	s.last = msg
	return "re_router", nil
}

func newTestRouter(t *testing.T, sender notify.EmailSender, origins ...string) http.Handler {
	t.Helper()

	logger := logging.NewWithWriter("error", io.Discard)
	leadsHandler := leads.NewHandler(leads.HandlerConfig{
		Sender: sender,
		Builder: leads.NewNotificationBuilder(leads.NotificationConfig{
			FromEmail: "onboarding@resend.dev",
			Recipient: "owner@example.com",
		}),
		Logger: logger,
	})

	return New(&Config{
		Logger:       logger,
		LeadsHandler: leadsHandler,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
		CORSAllowedOrigins: origins,
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &countingSender{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestRouterSendEmailEndpoint(t *testing.T) {
	sender := &countingSender{}
	router := newTestRouter(t, sender)

	req := httptest.NewRequest(http.MethodPost, "/api/send-email",
		strings.NewReader(`{"name":"Ana","email":"ana@x.com","phone":"999"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp leads.SendResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "re_router", resp.ID)
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "owner@example.com", sender.last.To)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouterSendEmailRejectsGet(t *testing.T) {
	sender := &countingSender{}
	router := newTestRouter(t, sender)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/send-email", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Zero(t, sender.calls)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, &countingSender{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "# metrics", rr.Body.String())
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, &countingSender{}, "https://links.example.com")

	req := httptest.NewRequest(http.MethodOptions, "/api/send-email", nil)
	req.Header.Set("Origin", "https://links.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://links.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterWithoutLeadsHandler(t *testing.T) {
	router := New(&Config{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
