package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for EMAIL_PROVIDER.
const (
	ProviderAuto     = "auto"
	ProviderResend   = "resend"
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
	ProviderSMTP     = "smtp"
	ProviderStub     = "stub"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Email provider selection and credentials
	EmailProvider   string
	ProviderTimeout time.Duration
	ResendAPIKey    string
	SendGridAPIKey  string
	SMTPHost        string
	SMTPPort        string
	SMTPUsername    string
	SMTPPassword    string

	// AWS (SES provider)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	SESConfigurationSet string

	// Lead notification addressing
	LeadFromEmail      string
	LeadFromName       string
	LeadRecipientEmail string
	LeadEmailSubject   string

	// ResourceURL is opened by the form after a successful submission.
	ResourceURL string

	// Lead form client
	LeadEndpointURL     string
	LeadFormResetOnOpen bool
}

// Load reads configuration from environment variables, after loading a
// .env file when one is present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		EmailProvider:   strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ProviderAuto))),
		ProviderTimeout: getEnvAsDuration("PROVIDER_TIMEOUT", 10*time.Second),
		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnv("SMTP_PORT", "587"),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		SESConfigurationSet: getEnv("SES_CONFIGURATION_SET", ""),

		LeadFromEmail:      getEnv("LEAD_FROM_EMAIL", "onboarding@resend.dev"),
		LeadFromName:       getEnv("LEAD_FROM_NAME", "Link Page"),
		LeadRecipientEmail: getEnv("LEAD_RECIPIENT_EMAIL", ""),
		LeadEmailSubject:   getEnv("LEAD_EMAIL_SUBJECT", "Nuevo lead del Mapa de Objeciones"),

		ResourceURL: getEnv("RESOURCE_URL", ""),

		LeadEndpointURL:     getEnv("LEAD_ENDPOINT_URL", "http://localhost:8080/api/send-email"),
		LeadFormResetOnOpen: getEnvAsBool("LEAD_FORM_RESET_ON_OPEN", false),
	}
}

// Validate reports configuration that would make every submission fail.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.LeadRecipientEmail) == "" {
		errs = append(errs, errors.New("LEAD_RECIPIENT_EMAIL is required"))
	}
	if strings.TrimSpace(c.LeadFromEmail) == "" {
		errs = append(errs, errors.New("LEAD_FROM_EMAIL is required"))
	}
	switch c.EmailProvider {
	case ProviderAuto, ProviderResend, ProviderSendGrid, ProviderSES, ProviderSMTP, ProviderStub:
	default:
		errs = append(errs, errors.New("EMAIL_PROVIDER must be one of auto, resend, sendgrid, ses, smtp, stub"))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
