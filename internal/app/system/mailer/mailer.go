// internal/app/system/mailer/mailer.go
package mailer

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Email is a single outbound message. Both bodies should be set; clients
// that cannot render HTML fall back to the text part.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP settings for the mailer.
// When Enabled is false, Send logs the message instead of delivering it,
// which is the normal mode for local development.
type Config struct {
	Enabled   bool
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Mailer sends email over SMTP with plain auth.
type Mailer struct {
	cfg Config
	log *zap.Logger
}

// New creates a Mailer. The logger is used for the disabled-mode echo and
// send failures are returned to the caller, not logged here.
func New(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: logger}
}

// Enabled reports whether outbound delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled
}

// Send delivers the email, or logs it when delivery is disabled.
// Callers treat failures as non-fatal for workflows where the email is a
// courtesy copy of an in-app notification.
func (m *Mailer) Send(e Email) error {
	if !m.cfg.Enabled {
		m.log.Info("email delivery disabled; message not sent",
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
		return nil
	}

	if m.cfg.Host == "" || m.cfg.FromEmail == "" {
		return fmt.Errorf("mailer is enabled but smtp host or from address is missing")
	}

	from := m.cfg.FromEmail
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail)
	}

	// multipart/alternative: text part first, HTML part preferred
	boundary := "----=_Part_dealflow_0001"

	msg := fmt.Sprintf("From: %s\r\n", from) +
		fmt.Sprintf("To: %s\r\n", e.To) +
		fmt.Sprintf("Subject: %s\r\n", e.Subject) +
		"MIME-Version: 1.0\r\n" +
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary) +
		"\r\n" +
		fmt.Sprintf("--%s\r\n", boundary) +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		e.TextBody + "\r\n"

	if e.HTMLBody != "" {
		msg += fmt.Sprintf("--%s\r\n", boundary) +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			e.HTMLBody + "\r\n"
	}
	msg += fmt.Sprintf("--%s--\r\n", boundary)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{e.To}, []byte(msg)); err != nil {
		return fmt.Errorf("send email to %s: %w", e.To, err)
	}
	return nil
}
