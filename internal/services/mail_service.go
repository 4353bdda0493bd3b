package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"dreamsaver/internal/config"
)

type IMailService interface {
	SendWelcome(ctx context.Context, to string) error
	SendMailToResetPassword(ctx context.Context, to, code string) error
}

// mailSender is the subset of *sendgrid.Client the service needs.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridMailService struct {
	cfg     config.MailConfig
	client  mailSender
	log     *zap.Logger
	htmlTpl *template.Template
	textTpl *template.Template
}

func NewSendGridMailService(cfg config.MailConfig, log *zap.Logger) IMailService {
	var client mailSender
	if cfg.SendGridAPIKey != "" {
		client = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	return newMailService(cfg, client, log)
}

func newMailService(cfg config.MailConfig, client mailSender, log *zap.Logger) *sendGridMailService {
	return &sendGridMailService{
		cfg:     cfg,
		client:  client,
		log:     log,
		htmlTpl: template.Must(template.New("html").Parse(baseHTMLTemplate)),
		textTpl: template.Must(template.New("text").Parse(plainTextTemplate)),
	}
}

func (s *sendGridMailService) SendWelcome(ctx context.Context, to string) error {
	subject := "Welcome to " + s.cfg.FromName
	return s.deliver(ctx, to, subject, EmailData{
		Title:     subject,
		Intro:     "Your first dream is saved. Keep writing them down as soon as you wake up, then ask for an interpretation whenever you are curious about what they might mean.",
		ButtonURL: strings.TrimRight(s.cfg.AppBaseURL, "/") + "/dashboard",
		ButtonTxt: "Open your journal",
	})
}

func (s *sendGridMailService) SendMailToResetPassword(ctx context.Context, to, code string) error {
	link := fmt.Sprintf("%s/reset-password?email=%s", strings.TrimRight(s.cfg.AppBaseURL, "/"), url.QueryEscape(to))
	return s.deliver(ctx, to, "Reset your password", EmailData{
		Title:     "Reset your password",
		Intro:     "Use this code to choose a new password. It expires in 15 minutes. If you didn't request a reset, you can ignore this email.",
		Code:      code,
		ButtonURL: link,
		ButtonTxt: "Reset Password",
	})
}

func (s *sendGridMailService) deliver(ctx context.Context, to, subject string, data EmailData) error {
	data.AppName = s.cfg.FromName
	data.Year = time.Now().Year()

	html, text, err := s.renderEmail(data)
	if err != nil {
		return err
	}

	if s.client == nil {
		s.log.Warn("mail disabled, SENDGRID_API_KEY not set", zap.String("subject", subject))
		return nil
	}

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), text, html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
	s.log.Debug("mail sent", zap.String("subject", subject), zap.Int("status", resp.StatusCode))
	return nil
}

// ------------------- Rendering -------------------

type EmailData struct {
	Title     string
	Intro     string
	Code      string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #0b1026; color: #e2e8f0; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .container { max-width: 560px; margin: 40px auto; background: #141a3a; border-radius: 16px; overflow: hidden; }
    .header { padding: 28px 32px; border-bottom: 1px solid rgba(167, 139, 250, 0.2); font-weight: 700; font-size: 20px; color: #a78bfa; }
    .hero { padding: 32px; }
    h1 { margin: 0 0 16px; font-size: 24px; color: #f8fafc; }
    p { margin: 0 0 20px; line-height: 1.7; color: #cbd5e1; }
    .code { font-size: 32px; letter-spacing: 8px; font-weight: 700; color: #f8fafc; margin: 24px 0; }
    .btn { display: inline-block; padding: 14px 28px; background: #7c3aed; color: #ffffff !important; text-decoration: none; border-radius: 10px; font-weight: 600; }
    .footer { padding: 20px 32px; font-size: 13px; color: #64748b; text-align: center; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">{{.AppName}}</div>
    <div class="hero">
      <h1>{{.Title}}</h1>
      <p>{{.Intro}}</p>
      {{if .Code}}<div class="code">{{.Code}}</div>{{end}}
      {{if .ButtonURL}}<a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a>{{end}}
    </div>
    <div class="footer">© {{.Year}} {{.AppName}}</div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}
{{if .Code}}
Code: {{.Code}}
{{end}}{{if .ButtonURL}}
{{.ButtonTxt}}: {{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *sendGridMailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer

	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}
