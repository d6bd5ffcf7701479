package bootstrap

import (
	"context"
	"fmt"

	appconfig "github.com/wolfman30/linkpage/internal/config"
	"github.com/wolfman30/linkpage/internal/notify"
	"github.com/wolfman30/linkpage/pkg/logging"
)

// BuildEmailSender selects the provider named by EMAIL_PROVIDER. In auto
// mode the first provider with credentials wins, in the order resend,
// sendgrid, smtp, ses; with none configured the stub sender is used.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	provider := cfg.EmailProvider
	if provider == "" || provider == appconfig.ProviderAuto {
		provider = detectProvider(cfg)
		logger.Info("email provider auto-detected", "provider", provider)
	}

	switch provider {
	case appconfig.ProviderResend:
		sender := notify.NewResendSender(notify.ResendConfig{
			APIKey:    cfg.ResendAPIKey,
			FromEmail: cfg.LeadFromEmail,
			FromName:  cfg.LeadFromName,
		}, logger)
		if sender == nil {
			return nil, missingCredential(provider, "RESEND_API_KEY")
		}
		return sender, nil

	case appconfig.ProviderSendGrid:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.LeadFromEmail,
			FromName:  cfg.LeadFromName,
		}, logger)
		if sender == nil {
			return nil, missingCredential(provider, "SENDGRID_API_KEY")
		}
		return sender, nil

	case appconfig.ProviderSMTP:
		sender := notify.NewSMTPSender(notify.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			FromEmail: cfg.LeadFromEmail,
			FromName:  cfg.LeadFromName,
		}, logger)
		if sender == nil {
			return nil, missingCredential(provider, "SMTP_HOST")
		}
		return sender, nil

	case appconfig.ProviderSES:
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client := NewSESClient(awsCfg, cfg.AWSEndpointOverride)
		return notify.NewSESSender(client, notify.SESConfig{
			FromEmail:        cfg.LeadFromEmail,
			FromName:         cfg.LeadFromName,
			ConfigurationSet: cfg.SESConfigurationSet,
		}, logger), nil

	case appconfig.ProviderStub:
		logger.Warn("using stub email sender; lead notifications are only logged")
		return notify.NewStubEmailSender(logger), nil

	default:
		return nil, fmt.Errorf("bootstrap: unknown email provider %q", provider)
	}
}

func detectProvider(cfg *appconfig.Config) string {
	switch {
	case cfg.ResendAPIKey != "":
		return appconfig.ProviderResend
	case cfg.SendGridAPIKey != "":
		return appconfig.ProviderSendGrid
	case cfg.SMTPHost != "":
		return appconfig.ProviderSMTP
	case hasStaticAWSCredentials(cfg):
		return appconfig.ProviderSES
	default:
		return appconfig.ProviderStub
	}
}

func missingCredential(provider, key string) error {
	return fmt.Errorf("bootstrap: %s provider requires %s: %w", provider, key, notify.ErrNotConfigured)
}
