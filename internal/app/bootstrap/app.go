package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wolfman30/linkpage/internal/api/router"
	appconfig "github.com/wolfman30/linkpage/internal/config"
	"github.com/wolfman30/linkpage/internal/leads"
	"github.com/wolfman30/linkpage/internal/notify"
	"github.com/wolfman30/linkpage/internal/observability/metrics"
	"github.com/wolfman30/linkpage/pkg/logging"
)

// App is the fully wired HTTP surface shared by the server and lambda binaries.
type App struct {
	Handler  http.Handler
	Sender   notify.EmailSender
	Registry *prometheus.Registry
}

// Build wires the email sender, the leads handler and the router.
func Build(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	sender, err := BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	leadsHandler := leads.NewHandler(leads.HandlerConfig{
		Sender: sender,
		Builder: leads.NewNotificationBuilder(leads.NotificationConfig{
			FromEmail: cfg.LeadFromEmail,
			FromName:  cfg.LeadFromName,
			Recipient: cfg.LeadRecipientEmail,
			Subject:   cfg.LeadEmailSubject,
		}),
		ProviderTimeout: cfg.ProviderTimeout,
		Metrics:         metrics.NewLeadMetrics(registry),
		Logger:          logger,
	})

	handler := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	logger.Info("lead notification endpoint ready",
		"provider", notify.ProviderName(sender),
		"recipient_configured", cfg.LeadRecipientEmail != "",
		"provider_timeout", cfg.ProviderTimeout.String(),
	)

	return &App{Handler: handler, Sender: sender, Registry: registry}, nil
}
