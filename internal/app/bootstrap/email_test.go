package bootstrap

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appconfig "github.com/wolfman30/linkpage/internal/config"
	"github.com/wolfman30/linkpage/internal/notify"
	"github.com/wolfman30/linkpage/pkg/logging"
)

func quietLogger() *logging.Logger {
	return logging.NewWithWriter("error", io.Discard)
}

func baseConfig() *appconfig.Config {
	return &appconfig.Config{
		EmailProvider:      appconfig.ProviderAuto,
		ProviderTimeout:    10 * time.Second,
		AWSRegion:          "us-east-1",
		SMTPPort:           "587",
		LeadFromEmail:      "onboarding@resend.dev",
		LeadFromName:       "Link Page",
		LeadRecipientEmail: "owner@example.com",
	}
}

func TestBuildEmailSender_RequiresConfig(t *testing.T) {
	_, err := BuildEmailSender(context.Background(), nil, quietLogger())
	assert.Error(t, err)
}

func TestBuildEmailSender_AutoDetect(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*appconfig.Config)
		want   string
	}{
		{"nothing configured", func(*appconfig.Config) {}, "stub"},
		{"resend", func(c *appconfig.Config) { c.ResendAPIKey = "re_test" }, "resend"},
		{"sendgrid", func(c *appconfig.Config) { c.SendGridAPIKey = "SG.test" }, "sendgrid"},
		{"smtp", func(c *appconfig.Config) { c.SMTPHost = "smtp.example.com" }, "smtp"},
		{"ses", func(c *appconfig.Config) {
			c.AWSAccessKeyID = "AKIATEST"
			c.AWSSecretAccessKey = "secret"
		}, "ses"},
		{"resend wins over sendgrid", func(c *appconfig.Config) {
			c.ResendAPIKey = "re_test"
			c.SendGridAPIKey = "SG.test"
		}, "resend"},
		{"empty provider means auto", func(c *appconfig.Config) {
			c.EmailProvider = ""
			c.SMTPHost = "smtp.example.com"
		}, "smtp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)

			sender, err := BuildEmailSender(context.Background(), cfg, quietLogger())
			require.NoError(t, err)
			require.NotNil(t, sender)
			assert.Equal(t, tt.want, notify.ProviderName(sender))
		})
	}
}

func TestBuildEmailSender_ExplicitProviderMissingCredential(t *testing.T) {
	for _, provider := range []string{appconfig.ProviderResend, appconfig.ProviderSendGrid, appconfig.ProviderSMTP} {
		t.Run(provider, func(t *testing.T) {
			cfg := baseConfig()
			cfg.EmailProvider = provider

			sender, err := BuildEmailSender(context.Background(), cfg, quietLogger())
			assert.Nil(t, sender)
			assert.ErrorIs(t, err, notify.ErrNotConfigured)
		})
	}
}

func TestBuildEmailSender_ExplicitStubIgnoresCredentials(t *testing.T) {
	cfg := baseConfig()
	cfg.EmailProvider = appconfig.ProviderStub
	cfg.ResendAPIKey = "re_test"

	sender, err := BuildEmailSender(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &notify.StubEmailSender{}, sender)
}

func TestBuildEmailSender_UnknownProvider(t *testing.T) {
	cfg := baseConfig()
	cfg.EmailProvider = "pigeon"

	_, err := BuildEmailSender(context.Background(), cfg, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pigeon")
}

func TestLoadAWSConfig_StaticCredentials(t *testing.T) {
	cfg := baseConfig()
	cfg.AWSRegion = "eu-west-1"
	cfg.AWSAccessKeyID = "AKIATEST"
	cfg.AWSSecretAccessKey = "secret"

	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", awsCfg.Region)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIATEST", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
}

func TestNewSESClient_EndpointOverride(t *testing.T) {
	cfg := baseConfig()
	cfg.AWSAccessKeyID = "AKIATEST"
	cfg.AWSSecretAccessKey = "secret"
	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	require.NoError(t, err)

	client := NewSESClient(awsCfg, "http://localhost:4566")
	require.NotNil(t, client)
	require.NotNil(t, client.Options().BaseEndpoint)
	assert.Equal(t, "http://localhost:4566", *client.Options().BaseEndpoint)

	assert.Nil(t, NewSESClient(awsCfg, "").Options().BaseEndpoint)
}
