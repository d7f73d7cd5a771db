package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/analysis"
	"github.com/heetd/job-assistant/internal/jobs"
	"github.com/heetd/job-assistant/internal/mailer"
	"github.com/heetd/job-assistant/internal/prefilter"
	"github.com/heetd/job-assistant/internal/profile"
	"github.com/heetd/job-assistant/internal/settings"
	"github.com/heetd/job-assistant/internal/vault"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	v, err := vault.New("test-master-secret")
	if err != nil {
		t.Fatalf("creating vault: %v", err)
	}

	return New(Deps{
		Logger:    zap.NewNop(),
		Engine:    analysis.NewEngine(zap.NewNop()),
		Prefilter: prefilter.New(zap.NewNop()),
		Settings:  settings.NewStore(filepath.Join(dir, "ai_settings.json"), v, zap.NewNop()),
		Mailer:    mailer.New(mailer.Config{Server: "smtp.example.com", Port: 587}, zap.NewNop()),
		Profiles:  profile.NewStore(filepath.Join(dir, "user_profile.json"), zap.NewNop()),
		UploadDir: filepath.Join(dir, "uploads"),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	rec, env := doJSON(t, testServer(t).Handler(), http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("health failed: %d %+v", rec.Code, env)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
}

func TestAnalyzeJobRuleBased(t *testing.T) {
	h := testServer(t).Handler()

	rec, env := doJSON(t, h, http.MethodPost, "/api/analyze-job", map[string]any{
		"job_data": map[string]any{
			"type":        jobs.TypeJobPage,
			"title":       "Backend Python Developer",
			"description": "Flask, FastAPI, REST APIs",
		},
	})

	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response: %d %+v", rec.Code, env)
	}

	data, _ := json.Marshal(env.Data)
	var result jobs.Analysis
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decoding analysis: %v", err)
	}
	if result.Status != jobs.StatusRelevant {
		t.Fatalf("expected RELEVANT, got %s (%s)", result.Status, result.Reason)
	}
	if !result.AttachmentRequired {
		t.Fatalf("expected attachment_required")
	}
}

func TestAnalyzeJobRejectsEmpty(t *testing.T) {
	h := testServer(t).Handler()

	rec, env := doJSON(t, h, http.MethodPost, "/api/analyze-job", map[string]any{})
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400, got %d %+v", rec.Code, env)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analyze-job", strings.NewReader("not json"))
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec2.Code)
	}
}

func TestPreFilterJobs(t *testing.T) {
	h := testServer(t).Handler()

	rec, env := doJSON(t, h, http.MethodPost, "/api/pre-filter-jobs", map[string]any{
		"jobs": []map[string]any{
			{"type": jobs.TypeFeedPost, "title": "Backend Developer", "description": "Python engineer role building APIs with Flask"},
			{"type": jobs.TypeFeedPost, "title": "Florist", "description": "Flower arrangement"},
		},
	})

	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response: %d %+v", rec.Code, env)
	}

	data, _ := json.Marshal(env.Data)
	var result preFilterResponse
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Method != prefilter.MethodKeyword {
		t.Fatalf("expected keyword method without a provider, got %s", result.Method)
	}
	if result.OriginalCount != 2 || result.FilteredCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.FilteredJobs) != 1 || result.FilteredJobs[0].Title != "Backend Developer" {
		t.Fatalf("wrong job kept: %+v", result.FilteredJobs)
	}
}

func TestAISettingsLifecycle(t *testing.T) {
	h := testServer(t).Handler()
	key := "gsk_0123456789012345678901234567890123456789"

	rec, env := doJSON(t, h, http.MethodPost, "/api/ai-settings", map[string]any{
		"provider": "groq",
		"api_key":  key,
	})
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("save failed: %d %+v", rec.Code, env)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/ai-settings", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("get failed: %d %+v", rec.Code, env)
	}
	raw, _ := json.Marshal(env.Data)
	if strings.Contains(string(raw), key) {
		t.Fatalf("settings response leaked the key: %s", raw)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/ai-settings/key-status", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("key status failed: %d %+v", rec.Code, env)
	}
	raw, _ = json.Marshal(env.Data)
	if !strings.Contains(string(raw), `"active_provider":"groq"`) {
		t.Fatalf("unexpected key status: %s", raw)
	}
	if strings.Contains(string(raw), key) {
		t.Fatalf("key status leaked the key: %s", raw)
	}

	rec, env = doJSON(t, h, http.MethodDelete, "/api/ai-settings", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("clear failed: %d %+v", rec.Code, env)
	}
}

func TestAISettingsRejectsBadKey(t *testing.T) {
	h := testServer(t).Handler()

	rec, env := doJSON(t, h, http.MethodPost, "/api/ai-settings", map[string]any{
		"provider": "openai",
		"api_key":  "wrong-format",
	})
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400, got %d %+v", rec.Code, env)
	}
}

func TestSendEmailMissingResume(t *testing.T) {
	h := testServer(t).Handler()

	rec, _ := doJSON(t, h, http.MethodPost, "/api/send-email", map[string]any{
		"email":       "to@example.com",
		"subject":     "Application",
		"body":        "Dear team",
		"resume_path": "/nonexistent/resume.pdf",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing resume, got %d", rec.Code)
	}
}

func TestSendEmailUnconfigured(t *testing.T) {
	h := testServer(t).Handler()

	rec, env := doJSON(t, h, http.MethodPost, "/api/send-email", map[string]any{
		"email":   "to@example.com",
		"subject": "Application",
		"body":    "Dear team",
	})
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("expected a structured not-configured failure, got %d %+v", rec.Code, env)
	}
	if !strings.Contains(env.Error, "not configured") {
		t.Fatalf("unexpected error: %q", env.Error)
	}
}

func TestUserProfileRoundTrip(t *testing.T) {
	h := testServer(t).Handler()

	rec, env := doJSON(t, h, http.MethodGet, "/api/user-profile", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("get failed: %d %+v", rec.Code, env)
	}

	rec, env = doJSON(t, h, http.MethodPost, "/api/user-profile", map[string]any{
		"name":   "Jamie Doe",
		"domain": "Go Backend Development",
		"email":  "jamie@example.com",
		"skills": []string{"Go", "PostgreSQL"},
	})
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("save failed: %d %+v", rec.Code, env)
	}

	_, env = doJSON(t, h, http.MethodGet, "/api/user-profile", nil)
	raw, _ := json.Marshal(env.Data)
	if !strings.Contains(string(raw), "Jamie Doe") {
		t.Fatalf("saved profile not returned: %s", raw)
	}
}

func TestUserProfileValidation(t *testing.T) {
	h := testServer(t).Handler()

	rec, env := doJSON(t, h, http.MethodPost, "/api/user-profile", map[string]any{
		"name": "No Email",
	})
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400 for an incomplete profile, got %d %+v", rec.Code, env)
	}
}

func TestUploadResume(t *testing.T) {
	h := testServer(t).Handler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume", "resume.txt")
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := fw.Write([]byte("Skills: Python, Docker")); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload-resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("upload failed: %d %s", rec.Code, rec.Body.String())
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	data, _ := json.Marshal(env.Data)
	var payload struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Path == "" {
		t.Fatalf("no stored path in response: %s", data)
	}

	// The uploaded file must be parseable right away.
	rec2, env2 := doJSON(t, h, http.MethodPost, "/api/parse-resume", map[string]any{"path": payload.Path})
	if rec2.Code != http.StatusOK || !env2.Success {
		t.Fatalf("parse of uploaded resume failed: %d %+v", rec2.Code, env2)
	}
}

func TestUploadResumeRejectsExtension(t *testing.T) {
	h := testServer(t).Handler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("resume", "malware.exe")
	fw.Write([]byte("MZ"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload-resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a disallowed extension, got %d", rec.Code)
	}
}

func TestParseResumeMissingFile(t *testing.T) {
	h := testServer(t).Handler()

	rec, _ := doJSON(t, h, http.MethodPost, "/api/parse-resume", map[string]any{"path": "/nonexistent/resume.txt"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPreflight(t *testing.T) {
	h := testServer(t).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze-job", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatalf("missing preflight headers")
	}
}
