package server

import (
	"net/http"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/mailer"
)

type sendEmailRequest struct {
	Email      string `json:"email"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	ResumePath string `json:"resume_path"`
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Subject == "" || req.Body == "" {
		s.fail(w, http.StatusBadRequest, "email, subject, and body are required")
		return
	}

	if req.ResumePath != "" {
		if _, err := os.Stat(req.ResumePath); err != nil {
			s.fail(w, http.StatusNotFound, "resume file not found")
			return
		}
	}

	if err := s.mailer.Send(req.Email, req.Subject, req.Body, req.ResumePath); err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			s.fail(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("sending email failed", zap.String("to", req.Email), zap.Error(err))
		s.fail(w, http.StatusInternalServerError, "failed to send email")
		return
	}

	s.ok(w, map[string]string{"message": "Email sent successfully to " + req.Email})
}

type testEmailRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleTestEmail(w http.ResponseWriter, r *http.Request) {
	var req testEmailRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		s.fail(w, http.StatusBadRequest, "test email address required")
		return
	}

	err := s.mailer.Send(req.Email,
		"Job Assistant - Test Email",
		"This is a test email from your Job Assistant. If you received this, your email configuration is working correctly!",
		"")
	if err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			s.fail(w, http.StatusBadRequest, err.Error())
			return
		}
		s.fail(w, http.StatusInternalServerError, "failed to send test email")
		return
	}

	s.ok(w, map[string]string{"message": "Test email sent to " + req.Email})
}
