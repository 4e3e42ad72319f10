// Package mailer sends notification emails through Resend. Bodies are
// written in markdown and rendered into a small HTML layout.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"lifelink-api-server/config"

	"github.com/resend/resend-go/v3"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

type emailAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

var md = goldmark.New(goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()))

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family:Arial,sans-serif;color:#222;max-width:560px;margin:0 auto;padding:24px">
<h2 style="color:#b91c1c">{{.Title}}</h2>
{{.Body}}
<p style="color:#888;font-size:12px">LifeLink blood donation network</p>
</body>
</html>`))

type Mailer struct {
	emails emailAPI
	from   string
}

// New returns nil when no API key is configured. A nil *Mailer drops every
// message.
func New(cfg config.MailConfig) *Mailer {
	if cfg.ResendAPIKey == "" {
		return nil
	}
	return &Mailer{emails: resend.NewClient(cfg.ResendAPIKey).Emails, from: cfg.From}
}

// Render converts a markdown body into the HTML email layout.
func Render(title, markdown string) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	var out bytes.Buffer
	err := layout.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return "", fmt.Errorf("failed to execute email layout: %w", err)
	}
	return out.String(), nil
}

func (m *Mailer) Send(ctx context.Context, to, subject, markdown string) error {
	if m == nil || to == "" {
		return nil
	}
	html, err := Render(subject, markdown)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Html:    html,
		Subject: subject,
	}
	if _, err := m.emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
