// Package mailer sends application emails over SMTP with an optional
// resume attachment.
package mailer

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when the sender address or password is
// missing. Callers surface it as a structured failure, not a crash.
var ErrNotConfigured = errors.New("email credentials not configured, set EMAIL_ADDRESS and EMAIL_PASSWORD")

// Config holds the SMTP connection settings.
type Config struct {
	Server   string
	Port     int
	Address  string
	Password string
}

// Mailer sends emails through one SMTP account.
type Mailer struct {
	cfg    Config
	logger *zap.Logger

	// send is swapped in tests to avoid dialing a real server.
	send func(m *gomail.Message) error
}

// New creates a mailer. The configuration is not validated here; a
// missing credential only matters when a send is attempted.
func New(cfg Config, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Mailer{cfg: cfg, logger: logger}
	m.send = func(msg *gomail.Message) error {
		d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Address, cfg.Password)
		return d.DialAndSend(msg)
	}
	return m
}

// Configured reports whether sending can be attempted at all.
func (m *Mailer) Configured() bool {
	return m.cfg.Address != "" && m.cfg.Password != ""
}

// Send delivers one plain-text email. A nonexistent attachment path is
// skipped rather than failing the send.
func (m *Mailer) Send(to, subject, body, attachmentPath string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Address)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if attachmentPath != "" {
		if _, err := os.Stat(attachmentPath); err == nil {
			msg.Attach(attachmentPath)
		} else {
			m.logger.Warn("attachment not found, sending without it",
				zap.String("path", attachmentPath))
		}
	}

	if err := m.send(msg); err != nil {
		return errors.Wrap(err, "sending email")
	}

	m.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
