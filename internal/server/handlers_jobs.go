package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/jobs"
)

type analyzeRequest struct {
	JobData     *jobs.Posting `json:"job_data"`
	UserProfile *jobs.Profile `json:"user_profile"`
}

func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.JobData == nil || req.JobData.Title == "" && req.JobData.Description == "" && req.JobData.Content == "" {
		s.fail(w, http.StatusBadRequest, "job data is required")
		return
	}

	profile := req.UserProfile
	if profile == nil {
		profile = s.profiles.Load()
	}

	cfg := s.settings.ActiveConfig()
	result := s.engine.Analyze(r.Context(), req.JobData, profile, cfg)

	s.logger.Debug("job analyzed",
		zap.String("title", req.JobData.Title),
		zap.String("status", result.Status))

	s.ok(w, result)
}

type preFilterRequest struct {
	Jobs        []*jobs.Posting `json:"jobs"`
	UserProfile *jobs.Profile   `json:"user_profile"`
}

type preFilterResponse struct {
	FilteredJobs  []*jobs.Posting `json:"filteredJobs"`
	OriginalCount int             `json:"originalCount"`
	FilteredCount int             `json:"filteredCount"`
	Method        string          `json:"method"`
}

func (s *Server) handlePreFilterJobs(w http.ResponseWriter, r *http.Request) {
	var req preFilterRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Jobs == nil {
		s.fail(w, http.StatusBadRequest, "jobs list is required")
		return
	}

	profile := req.UserProfile
	if profile == nil {
		profile = s.profiles.Load()
	}

	cfg := s.settings.ActiveConfig()
	kept, result := s.prefilter.Run(r.Context(), req.Jobs, profile, cfg)

	s.ok(w, preFilterResponse{
		FilteredJobs:  kept,
		OriginalCount: result.Step.Initial,
		FilteredCount: result.Step.Left,
		Method:        result.Method,
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.ok(w, s.profiles.Load())
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var p jobs.Profile
	if err := decode(r, &p); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid profile data")
		return
	}

	if err := s.profiles.Save(&p); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	s.ok(w, map[string]string{"message": "Profile updated successfully"})
}
