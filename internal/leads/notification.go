package leads

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wolfman30/linkpage/internal/notify"
)

// NotificationConfig holds the fixed addressing of lead notifications.
type NotificationConfig struct {
	FromEmail string
	FromName  string
	Recipient string
	Subject   string
}

const leadHTMLTemplate = `<h2>{{.Subject}}</h2>
<p><strong>Nombre:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Teléfono:</strong> {{.Phone}}</p>
`

const leadTextTemplate = `{{.Subject}}

Nombre: {{.Name}}
Email: {{.Email}}
Teléfono: {{.Phone}}
`

type templateData struct {
	Subject string
	Name    string
	Email   string
	Phone   string
}

// NotificationBuilder turns a submission into the email sent to the page owner.
// Submitted values are untrusted: the HTML body is rendered through
// html/template and then restricted to the template's own markup.
type NotificationBuilder struct {
	cfg    NotificationConfig
	html   *htmltemplate.Template
	text   *texttemplate.Template
	policy *bluemonday.Policy
}

// NewNotificationBuilder parses the lead templates once.
func NewNotificationBuilder(cfg NotificationConfig) *NotificationBuilder {
	if strings.TrimSpace(cfg.Subject) == "" {
		cfg.Subject = "Nuevo lead del Mapa de Objeciones"
	}
	policy := bluemonday.NewPolicy()
	policy.AllowElements("h2", "p", "strong")

	return &NotificationBuilder{
		cfg:    cfg,
		html:   htmltemplate.Must(htmltemplate.New("lead.html").Parse(leadHTMLTemplate)),
		text:   texttemplate.Must(texttemplate.New("lead.txt").Parse(leadTextTemplate)),
		policy: policy,
	}
}

// Build renders the notification for s.
func (b *NotificationBuilder) Build(s Submission) (notify.EmailMessage, error) {
	data := templateData{
		Subject: b.cfg.Subject,
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
	}

	var htmlBuf bytes.Buffer
	if err := b.html.Execute(&htmlBuf, data); err != nil {
		return notify.EmailMessage{}, fmt.Errorf("leads: render html body: %w", err)
	}
	var textBuf bytes.Buffer
	if err := b.text.Execute(&textBuf, data); err != nil {
		return notify.EmailMessage{}, fmt.Errorf("leads: render text body: %w", err)
	}

	return notify.EmailMessage{
		From:     b.cfg.FromEmail,
		FromName: b.cfg.FromName,
		To:       b.cfg.Recipient,
		Subject:  b.cfg.Subject,
		Body:     textBuf.String(),
		HTML:     b.policy.Sanitize(htmlBuf.String()),
	}, nil
}
