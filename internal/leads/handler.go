package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/linkpage/internal/notify"
	"github.com/wolfman30/linkpage/internal/observability/metrics"
	"github.com/wolfman30/linkpage/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxBodyBytes           = 64 << 10
	defaultProviderTimeout = 10 * time.Second
)

var leadsTracer = otel.Tracer("linkpage.internal.leads")

// HandlerConfig holds the dependencies of the notification endpoint.
type HandlerConfig struct {
	Sender          notify.EmailSender
	Builder         *NotificationBuilder
	ProviderTimeout time.Duration
	Metrics         *metrics.LeadMetrics
	Logger          *logging.Logger
}

// Handler handles HTTP requests for lead notifications
type Handler struct {
	sender   notify.EmailSender
	provider string
	builder  *NotificationBuilder
	timeout  time.Duration
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = defaultProviderTimeout
	}
	if cfg.Builder == nil {
		cfg.Builder = NewNotificationBuilder(NotificationConfig{})
	}
	return &Handler{
		sender:   cfg.Sender,
		provider: notify.ProviderName(cfg.Sender),
		builder:  cfg.Builder,
		timeout:  cfg.ProviderTimeout,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// SendEmail handles POST /api/send-email requests
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	ctx, span := leadsTracer.Start(r.Context(), "leads.send_email", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
	w = ww
	defer func() {
		if rec := recover(); rec != nil {
			h.recoverPanic(ww, span, rec)
		}
	}()

	sub, err := decodeSubmission(w, r)
	if err != nil {
		h.logger.Warn("rejected lead submission", "error", err)
		span.SetAttributes(attribute.String("linkpage.leads.outcome", metrics.OutcomeBadRequest))
		h.metrics.ObserveSubmission(metrics.OutcomeBadRequest)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	id, err := h.notify(ctx, sub)
	if err != nil {
		h.logger.Error("failed to send lead notification", "error", err, "provider", h.provider)
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider error")
		h.metrics.ObserveSubmission(metrics.OutcomeProviderError)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgProviderFailed})
		return
	}

	span.SetAttributes(
		attribute.String("linkpage.leads.outcome", metrics.OutcomeOK),
		attribute.String("linkpage.leads.message_id", id),
	)
	h.metrics.ObserveSubmission(metrics.OutcomeOK)
	h.logger.Info("lead notification sent", "provider", h.provider, "message_id", id)

	writeJSON(w, http.StatusOK, SendResponse{
		Success: true,
		Message: msgSent,
		ID:      id,
	})
}

// recoverPanic reports a panic as an internal error. When the response has
// already been started only the log, span and metric are recorded.
func (h *Handler) recoverPanic(ww chimw.WrapResponseWriter, span trace.Span, rec any) {
	err := fmt.Errorf("panic: %v", rec)
	h.logger.Error("lead submission panicked", "error", err, "response_started", ww.Status() != 0)
	span.RecordError(err)
	span.SetStatus(codes.Error, "panic")
	h.metrics.ObserveSubmission(metrics.OutcomeInternalError)
	if ww.Status() != 0 {
		return
	}
	writeJSON(ww, http.StatusInternalServerError, ErrorResponse{Error: msgInternal})
}

// notify builds and sends one notification, bounded by the provider timeout.
func (h *Handler) notify(ctx context.Context, sub Submission) (string, error) {
	if h.sender == nil {
		return "", notify.ErrNotConfigured
	}
	msg, err := h.builder.Build(sub)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	id, err := h.sender.Send(ctx, msg)
	h.metrics.ObserveProviderCall(h.provider, err, time.Since(start).Seconds())
	return id, err
}

// decodeSubmission parses the body and applies the server-side presence check.
func decodeSubmission(w http.ResponseWriter, r *http.Request) (Submission, error) {
	var sub Submission
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&sub); err != nil {
		if errors.Is(err, io.EOF) {
			return sub, ErrMissingFields
		}
		return sub, ErrInvalidBody
	}
	if !sub.Complete() {
		return sub, ErrMissingFields
	}
	return sub, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
