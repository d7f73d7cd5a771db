package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/resume"
)

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "no resume file provided")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !resume.SupportedExtension(ext) {
		s.fail(w, http.StatusBadRequest, "invalid file type, allowed: PDF, DOC, DOCX, TXT")
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		s.fail(w, http.StatusInternalServerError, "failed to store resume")
		return
	}

	filename := fmt.Sprintf("resume_%s%s", time.Now().Format("20060102_150405"), ext)
	path := filepath.Join(s.uploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "failed to store resume")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		s.fail(w, http.StatusInternalServerError, "failed to store resume")
		return
	}

	s.logger.Info("resume uploaded", zap.String("filename", filename))

	s.ok(w, map[string]string{
		"filename": filename,
		"path":     path,
		"message":  "Resume uploaded successfully",
	})
}

type parseResumeRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	var req parseResumeRequest
	if err := decode(r, &req); err != nil || req.Path == "" {
		s.fail(w, http.StatusBadRequest, "resume path is required")
		return
	}

	if _, err := os.Stat(req.Path); err != nil {
		s.fail(w, http.StatusNotFound, "resume file not found")
		return
	}

	parsed, err := resume.Parse(req.Path)
	if err != nil {
		switch {
		case errors.Is(err, resume.ErrUnsupportedFormat):
			s.fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, resume.ErrMissingDependency):
			s.fail(w, http.StatusInternalServerError, err.Error())
		default:
			s.logger.Error("resume parsing failed", zap.String("path", req.Path), zap.Error(err))
			s.fail(w, http.StatusInternalServerError, "failed to parse resume")
		}
		return
	}

	s.ok(w, parsed)
}
