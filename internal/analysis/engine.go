// Package analysis decides whether a job posting fits the user profile
// and drafts the application email. Analysis runs through a configured
// AI provider when one is usable and falls back to keyword rules when
// it is not; callers cannot tell the paths apart from the result shape.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/ai"
	"github.com/heetd/job-assistant/internal/jobs"
	"github.com/heetd/job-assistant/internal/logger"
)

// Engine analyzes postings against a profile.
type Engine struct {
	logger *zap.Logger

	// newClient is swapped in tests to avoid real provider calls.
	newClient ai.Factory
}

// NewEngine builds an analysis engine.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{logger: log, newClient: ai.New}
}

// Analyze produces a full analysis of one posting. Any internal panic
// or unexpected failure becomes an ERROR result instead of propagating.
func (e *Engine) Analyze(ctx context.Context, job *jobs.Posting, profile *jobs.Profile, cfg ai.ProviderConfig) (result *jobs.Analysis) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("analysis panicked", zap.Any("panic", r))
			result = jobs.ErrorAnalysis(fmt.Sprint(r))
		}
	}()

	if profile == nil {
		profile = jobs.DefaultProfile()
	} else {
		profile.ApplyDefaults()
	}

	base := e.analyze(ctx, job, profile, cfg)
	enrichWithResume(base, job, profile, e.logger)
	return base
}

func (e *Engine) analyze(ctx context.Context, job *jobs.Posting, profile *jobs.Profile, cfg ai.ProviderConfig) *jobs.Analysis {
	if !cfg.Usable() {
		e.logger.Debug("no usable provider, using rule-based analysis")
		return ruleBasedAnalysis(job, profile)
	}

	result, err := e.aiAnalysis(ctx, job, profile, cfg)
	if err != nil {
		// The API surface promises an answer, not an excuse. A dead
		// provider silently downgrades to rules.
		e.logger.Warn("ai analysis failed, falling back to rules",
			zap.String(logger.FieldProvider, cfg.Provider), zap.Error(err))
		return ruleBasedAnalysis(job, profile)
	}
	return result
}

func (e *Engine) aiAnalysis(ctx context.Context, job *jobs.Posting, profile *jobs.Profile, cfg ai.ProviderConfig) (*jobs.Analysis, error) {
	client, err := e.newClient(cfg, e.logger)
	if err != nil {
		return nil, err
	}

	response, err := client.Complete(ctx, ai.Request{
		System:      systemInstruction,
		User:        analysisPrompt(job.Text(), profile),
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("provider response",
		zap.String(logger.FieldProvider, client.Provider()),
		zap.String("response", logger.TruncateForLog(response, 500)))

	parsed := extractJSON(response)
	if parsed == nil {
		return nil, fmt.Errorf("no valid JSON in provider response")
	}

	return coerceResult(parsed, e.logger), nil
}

// coerceResult turns a loosely shaped model reply into a well formed
// analysis: missing fields default, unknown statuses become
// NOT_RELEVANT, a RELEVANT result always requires an attachment, and a
// rejected result never carries an email draft.
func coerceResult(raw map[string]any, log *zap.Logger) *jobs.Analysis {
	result := &jobs.Analysis{
		Status:       stringField(raw, "status"),
		Reason:       stringField(raw, "reason"),
		Contact:      stringField(raw, "contact"),
		EmailSubject: stringField(raw, "email_subject"),
		EmailBody:    stringField(raw, "email_body"),
	}
	if v, ok := raw["attachment_required"].(bool); ok {
		result.AttachmentRequired = v
	}

	switch strings.ToUpper(result.Status) {
	case jobs.StatusRelevant:
		result.Status = jobs.StatusRelevant
	case jobs.StatusNotRelevant, "NOT RELEVANT":
		result.Status = jobs.StatusNotRelevant
	default:
		log.Warn("unexpected analysis status, coercing", zap.String("status", result.Status))
		result.Status = jobs.StatusNotRelevant
	}

	if result.Contact == "null" {
		result.Contact = ""
	}

	if result.Status == jobs.StatusRelevant {
		result.AttachmentRequired = true
	} else {
		result.EmailSubject = ""
		result.EmailBody = ""
		result.AttachmentRequired = false
	}

	// Models escape newlines when told to keep JSON single-line.
	result.EmailBody = strings.ReplaceAll(result.EmailBody, `\n`, "\n")

	return result
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
