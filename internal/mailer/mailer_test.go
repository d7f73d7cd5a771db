package mailer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

func testMailer(sent *[]*gomail.Message) *Mailer {
	m := New(Config{
		Server:   "smtp.example.com",
		Port:     587,
		Address:  "sender@example.com",
		Password: "app-password",
	}, zap.NewNop())
	m.send = func(msg *gomail.Message) error {
		*sent = append(*sent, msg)
		return nil
	}
	return m
}

func TestSendNotConfigured(t *testing.T) {
	m := New(Config{Server: "smtp.example.com", Port: 587}, zap.NewNop())

	err := m.Send("to@example.com", "Subject", "Body", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if m.Configured() {
		t.Fatalf("mailer without credentials must report unconfigured")
	}
}

func TestSendPlain(t *testing.T) {
	var sent []*gomail.Message
	m := testMailer(&sent)

	if err := m.Send("to@example.com", "Application", "Dear team", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}

	msg := sent[0]
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "to@example.com" {
		t.Fatalf("unexpected To header: %v", got)
	}
	if got := msg.GetHeader("Subject"); len(got) != 1 || got[0] != "Application" {
		t.Fatalf("unexpected Subject header: %v", got)
	}
}

func TestSendSkipsMissingAttachment(t *testing.T) {
	var sent []*gomail.Message
	m := testMailer(&sent)

	err := m.Send("to@example.com", "Application", "Body", "/nonexistent/resume.pdf")
	if err != nil {
		t.Fatalf("a missing attachment must not fail the send: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("expected the message to go out anyway")
	}
}

func TestSendWithAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("writing attachment: %v", err)
	}

	var sent []*gomail.Message
	m := testMailer(&sent)

	if err := m.Send("to@example.com", "Application", "Body", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("expected one message")
	}
}
