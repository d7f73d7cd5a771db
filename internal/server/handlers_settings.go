package server

import (
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/ai"
	"github.com/heetd/job-assistant/internal/settings"
	"github.com/heetd/job-assistant/internal/vault"
)

func (s *Server) handleGetAISettings(w http.ResponseWriter, r *http.Request) {
	view := s.settings.ProviderSettings(r.URL.Query().Get("provider"))
	if view == nil {
		s.ok(w, map[string]any{"configured": false})
		return
	}
	s.ok(w, view)
}

type saveSettingsRequest struct {
	Provider            string  `json:"provider"`
	APIKey              string  `json:"api_key"`
	Model               string  `json:"model"`
	Temperature         float64 `json:"temperature"`
	MaxTokens           int     `json:"max_tokens"`
	EnableOptimizations *bool   `json:"enable_optimizations"`
}

func (s *Server) handleSaveAISettings(w http.ResponseWriter, r *http.Request) {
	var req saveSettingsRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Provider == "" || req.APIKey == "" {
		s.fail(w, http.StatusBadRequest, "provider and API key are required")
		return
	}

	params := settings.Params{
		Model:               req.Model,
		Temperature:         req.Temperature,
		MaxTokens:           req.MaxTokens,
		EnableOptimizations: true,
	}
	if params.Temperature == 0 {
		params.Temperature = 0.7
	}
	if params.MaxTokens == 0 {
		params.MaxTokens = 1500
	}
	if req.EnableOptimizations != nil {
		params.EnableOptimizations = *req.EnableOptimizations
	}

	if err := s.settings.Save(req.Provider, req.APIKey, params); err != nil {
		if errors.Is(err, settings.ErrInvalidKeyFormat) {
			s.fail(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("saving provider settings failed", zap.Error(err))
		s.fail(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	s.ok(w, map[string]string{"message": "API key stored securely for " + req.Provider})
}

func (s *Server) handleClearAISettings(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("provider")

	var err error
	if provider == "" {
		err = s.settings.ClearAll()
	} else {
		err = s.settings.Clear(provider)
	}
	if err != nil {
		s.logger.Error("clearing provider settings failed", zap.Error(err))
		s.fail(w, http.StatusInternalServerError, "failed to clear settings")
		return
	}

	s.ok(w, map[string]string{"message": "Settings cleared"})
}

func (s *Server) handleKeyStatus(w http.ResponseWriter, r *http.Request) {
	s.ok(w, map[string]any{
		"providers":       s.settings.Statuses(),
		"active_provider": s.settings.ActiveProvider(),
	})
}

type testAIRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
}

func (s *Server) handleTestAI(w http.ResponseWriter, r *http.Request) {
	var req testAIRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Provider == "" || req.APIKey == "" {
		s.fail(w, http.StatusBadRequest, "provider and API key are required")
		return
	}
	if !vault.ValidateKeyFormat(req.Provider, req.APIKey) {
		s.fail(w, http.StatusBadRequest, "invalid API key format for "+req.Provider)
		return
	}

	client, err := ai.New(ai.ProviderConfig{
		Provider: req.Provider,
		APIKey:   req.APIKey,
		Model:    req.Model,
	}, s.logger)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	s.ok(w, ai.TestConnection(r.Context(), client))
}
