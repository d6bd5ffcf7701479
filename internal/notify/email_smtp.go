package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/jordan-wright/email"
	"github.com/wolfman30/linkpage/pkg/logging"
)

// SMTPSender delivers email through a plain SMTP relay.
type SMTPSender struct {
	addr      string
	host      string
	auth      smtp.Auth
	fromEmail string
	fromName  string
	logger    *logging.Logger

	send func(e *email.Email, addr string, auth smtp.Auth) error
}

// SMTPConfig holds configuration for an SMTP relay.
type SMTPConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// NewSMTPSender creates an SMTP sender, or nil without a host.
func NewSMTPSender(cfg SMTPConfig, logger *logging.Logger) *SMTPSender {
	if cfg.Host == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr:      net.JoinHostPort(cfg.Host, cfg.Port),
		host:      cfg.Host,
		auth:      auth,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Send delivers msg. SMTP has no provider id, so a Message-Id header is
// generated and returned instead.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if s == nil || s.send == nil {
		return "", fmt.Errorf("notify: smtp: %w", ErrNotConfigured)
	}

	e := email.NewEmail()
	e.From = formatAddress(msg.fromAddress(s.fromEmail, s.fromName))
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Body)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.host)
	e.Headers.Set("Message-Id", messageID)

	// net/smtp has no context support; the send keeps running after ctx ends
	// but the caller is released.
	done := make(chan error, 1)
	go func() {
		done <- s.send(e, s.addr, s.auth)
	}()

	select {
	case <-ctx.Done():
		s.logger.Error("smtp send abandoned", "error", ctx.Err(), "to", msg.To)
		return "", fmt.Errorf("notify: smtp send: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("smtp send failed", "error", err, "to", msg.To, "addr", s.addr)
			return "", fmt.Errorf("notify: smtp send failed: %w", err)
		}
	}

	s.logger.Info("email sent via smtp", "to", msg.To, "subject", msg.Subject, "message_id", messageID)
	return messageID, nil
}

var _ EmailSender = (*SMTPSender)(nil)
