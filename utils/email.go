package utils

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrSMTPNotConfigured = errors.New("SMTP not configured")

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func (c *EmailConfig) ready() bool {
	return c.Host != "" && c.Port != "" && c.From != ""
}

// Mailer sends transactional email. Handlers depend on this so tests can
// capture messages instead of dialing SMTP.
type Mailer interface {
	SendOTP(email, name, otp string, validFor time.Duration)
	SendPasswordReset(email, name, resetToken, frontendURL string)
	SendWelcome(email, name string)
}

// SMTPMailer renders and sends mail in the background. A nil Config is
// read from the SMTP_* environment on every send.
type SMTPMailer struct {
	Config *EmailConfig
}

func (m SMTPMailer) config() *EmailConfig {
	if m.Config != nil {
		return m.Config
	}
	return GetEmailConfig()
}

var mailTemplates = template.Must(template.New("mail").Parse(`
{{define "otp"}}<h2>Verify your email</h2>
<p>Hi {{.Name}},</p>
<p>Your verification code is:</p>
<p style="font-size:24px;letter-spacing:4px;"><strong>{{.Code}}</strong></p>
<p>The code expires in {{.Minutes}} minutes.</p>
<p>The Baggr Team</p>{{end}}
{{define "welcome"}}<h2>Welcome to Baggr, {{.Name}}!</h2>
<p>Your email is verified. You can now browse local service providers, review the ones you have used and pin your favourites.</p>
<p>The Baggr Team</p>{{end}}
{{define "reset"}}<h2>Password reset</h2>
<p>Hi {{.Name}},</p>
<p>Use the link below to choose a new password. It expires in 1 hour.</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>If you did not ask for this, ignore this email.</p>
<p>The Baggr Team</p>{{end}}`))

type mailData struct {
	Name    string
	Code    string
	Minutes int
	Link    string
}

func render(name string, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return "there"
}

func resetLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/reset-password?token=" + token
}

func (m SMTPMailer) SendOTP(email, name, otp string, validFor time.Duration) {
	m.deliver(email, "Your Baggr verification code", "otp", mailData{
		Name: firstName(name), Code: otp, Minutes: int(validFor.Minutes()),
	})
}

func (m SMTPMailer) SendPasswordReset(email, name, resetToken, frontendURL string) {
	m.deliver(email, "Reset your Baggr password", "reset", mailData{
		Name: firstName(name), Link: resetLink(frontendURL, resetToken),
	})
}

func (m SMTPMailer) SendWelcome(email, name string) {
	m.deliver(email, "Welcome to Baggr!", "welcome", mailData{Name: firstName(name)})
}

func (m SMTPMailer) deliver(to, subject, tmpl string, data mailData) {
	cfg := m.config()
	go func() {
		body, err := render(tmpl, data)
		if err == nil {
			err = SendEmail(cfg, to, subject, body)
		}
		if err != nil {
			zap.L().Error("failed to send email", zap.String("template", tmpl), zap.String("email", to), zap.Error(err))
		}
	}()
}

// SendEmail delivers one HTML message synchronously.
func SendEmail(cfg *EmailConfig, to, subject, htmlBody string) error {
	if !cfg.ready() {
		return ErrSMTPNotConfigured
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	msg := buildMessage(cfg.From, to, subject, htmlBody)
	return smtp.SendMail(net.JoinHostPort(cfg.Host, cfg.Port), auth, cfg.From, []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, htmlBody string) string {
	var b strings.Builder
	for _, h := range [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	} {
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], h[1])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return b.String()
}
