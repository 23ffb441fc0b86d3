package mailer

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/lodgelink/lodgelink-backend/pkg/config"
	"github.com/lodgelink/lodgelink-backend/pkg/logger"
)

// Mailer delivers transactional email over SMTP. When no host is configured
// the mailer is a no-op that logs instead of sending, so local dev never
// needs a mail server.
type Mailer struct {
	cfg  config.SMTPConfig
	logg *logger.Logger
	send sendFunc
}

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// Sender is the delivery surface consumed by services.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

func New(cfg config.SMTPConfig, logg *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, logg: logg, send: smtp.SendMail}
}

// Send builds a multipart/alternative message and delivers it. The html part
// is optional.
func (m *Mailer) Send(ctx context.Context, to, subject, text, html string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("recipient is required")
	}
	if !m.cfg.Enabled() {
		if m.logg != nil {
			ctx = m.logg.WithFields(ctx, map[string]any{"to": to, "subject": subject})
			m.logg.Info(ctx, "smtp disabled, skipping email delivery")
		}
		return nil
	}

	msg, err := buildMessage(m.cfg.From, to, subject, text, html)
	if err != nil {
		return fmt.Errorf("building message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := m.send(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("sending email to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, text, html string) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if strings.TrimSpace(html) == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(text)
		return []byte(b.String()), nil
	}

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", writer.Boundary())

	textPart, err := writer.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(text)); err != nil {
		return nil, err
	}
	htmlPart, err := writer.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=utf-8"}})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(html)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	b.WriteString(body.String())
	return []byte(b.String()), nil
}
