// Package server exposes the browser-extension-facing HTTP API.
//
// Every response is a JSON envelope with a success flag and either a
// payload or an error message, so the extension always gets a well
// formed answer even when a dependency is absent.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/analysis"
	"github.com/heetd/job-assistant/internal/mailer"
	"github.com/heetd/job-assistant/internal/prefilter"
	"github.com/heetd/job-assistant/internal/profile"
	"github.com/heetd/job-assistant/internal/settings"
)

const maxUploadBytes = 16 << 20

// Server wires the API handlers to their collaborators.
type Server struct {
	logger    *zap.Logger
	engine    *analysis.Engine
	prefilter *prefilter.Filter
	settings  *settings.Store
	mailer    *mailer.Mailer
	profiles  *profile.Store
	uploadDir string
}

// Deps are the collaborators the server routes requests to.
type Deps struct {
	Logger    *zap.Logger
	Engine    *analysis.Engine
	Prefilter *prefilter.Filter
	Settings  *settings.Store
	Mailer    *mailer.Mailer
	Profiles  *profile.Store
	UploadDir string
}

// New builds the server.
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		logger:    logger,
		engine:    deps.Engine,
		prefilter: deps.Prefilter,
		settings:  deps.Settings,
		mailer:    deps.Mailer,
		profiles:  deps.Profiles,
		uploadDir: deps.UploadDir,
	}
}

// Handler returns the routed handler with CORS and recovery applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("POST /api/analyze-job", s.handleAnalyzeJob)
	mux.HandleFunc("POST /api/pre-filter-jobs", s.handlePreFilterJobs)
	mux.HandleFunc("POST /api/upload-resume", s.handleUploadResume)
	mux.HandleFunc("POST /api/parse-resume", s.handleParseResume)
	mux.HandleFunc("GET /api/ai-settings", s.handleGetAISettings)
	mux.HandleFunc("POST /api/ai-settings", s.handleSaveAISettings)
	mux.HandleFunc("DELETE /api/ai-settings", s.handleClearAISettings)
	mux.HandleFunc("GET /api/ai-settings/key-status", s.handleKeyStatus)
	mux.HandleFunc("POST /api/test-ai", s.handleTestAI)
	mux.HandleFunc("POST /api/send-email", s.handleSendEmail)
	mux.HandleFunc("POST /api/test-email", s.handleTestEmail)
	mux.HandleFunc("GET /api/user-profile", s.handleGetProfile)
	mux.HandleFunc("POST /api/user-profile", s.handleSaveProfile)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	return s.cors(s.recover(mux))
}

// cors answers preflights and marks every response extension-callable.
// The extension's origin is a browser-generated ID, so the policy is
// permissive rather than origin-pinned.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler panicked",
					zap.String("path", r.URL.Path), zap.Any("panic", rec))
				s.fail(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.ok(w, map[string]any{
		"status":    "running",
		"service":   "Job Assistant API",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	// Per-user application stats have no backing store yet.
	s.ok(w, map[string]any{
		"analyzed":     0,
		"relevant":     0,
		"applied":      0,
		"success_rate": 0.0,
	})
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) ok(w http.ResponseWriter, data any) {
	s.respond(w, http.StatusOK, envelope{Success: true, Data: data})
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string) {
	s.respond(w, status, envelope{Success: false, Error: msg})
}

func (s *Server) respond(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("writing response failed", zap.Error(err))
	}
}

// decode parses a JSON request body, rejecting empty bodies.
func decode(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
