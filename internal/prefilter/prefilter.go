// Package prefilter is the cheap first pass over a scraped job list.
// It trims the list with one small AI verdict per batch, or with
// keyword scoring when no provider is usable, before the expensive
// full analysis runs.
package prefilter

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/ai"
	"github.com/heetd/job-assistant/internal/jobs"
	"github.com/heetd/job-assistant/internal/logger"
)

// Method tags reported in the result.
const (
	MethodAI      = "ai"
	MethodKeyword = "keyword"
)

// Tunables. The defaults bias toward recall: batches are small and
// ambiguous verdicts keep the posting. Vars, not constants, because no
// measured precision/recall target backs the defaults.
var (
	// BatchSize bounds how many postings go into one provider call.
	BatchSize = 5
	// KeepThreshold is the keyword score a posting must exceed to be kept.
	KeepThreshold = 2
)

// techKeywords each add one point to a posting's keyword score.
var techKeywords = []string{
	"developer", "engineer", "python", "javascript", "api", "backend",
	"frontend", "ml", "ai", "software", "programmer", "data",
}

// Step reports what one filtering pass did to the list.
type Step struct {
	Initial int `json:"initial"`
	Dropped int `json:"dropped"`
	Left    int `json:"left"`
}

// Result describes how a filter run went: which path ran and the
// resulting counts.
type Result struct {
	Method string `json:"method"`
	Step   Step   `json:"step"`
}

// Filter runs the pre-filter passes.
type Filter struct {
	logger *zap.Logger

	// newClient is swapped in tests to avoid real provider calls.
	newClient ai.Factory
}

// New creates a pre-filter.
func New(log *zap.Logger) *Filter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Filter{logger: log, newClient: ai.New}
}

// Run filters postings against the profile. With a usable provider
// config it asks for one verdict line per posting in fixed-size
// batches; without one it scores every posting by keywords in a single
// pass. A provider failure downgrades only the affected batch.
func (f *Filter) Run(ctx context.Context, postings []*jobs.Posting, profile *jobs.Profile, cfg ai.ProviderConfig) ([]*jobs.Posting, Result) {
	initial := len(postings)

	if profile == nil {
		profile = jobs.DefaultProfile()
	} else {
		profile.ApplyDefaults()
	}

	if !cfg.Usable() {
		kept := f.keywordPass(postings, profile, true)
		return kept, Result{Method: MethodKeyword, Step: Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}}
	}

	client, err := f.newClient(cfg, f.logger)
	if err != nil {
		f.logger.Warn("provider client unavailable, using keyword pre-filter", zap.Error(err))
		kept := f.keywordPass(postings, profile, true)
		return kept, Result{Method: MethodKeyword, Step: Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}}
	}

	kept := make([]*jobs.Posting, 0, initial)
	for start := 0; start < len(postings); start += BatchSize {
		end := start + BatchSize
		if end > len(postings) {
			end = len(postings)
		}
		batch := postings[start:end]

		batchKept, err := f.filterBatch(ctx, client, batch, profile)
		if err != nil {
			// One bad batch must not poison the others.
			f.logger.Warn("batch verdict failed, scoring batch by keywords",
				zap.String(logger.FieldProvider, client.Provider()),
				zap.Int("batch_start", start),
				zap.Error(err))
			batchKept = f.keywordPass(batch, profile, false)
		}
		kept = append(kept, batchKept...)
	}

	f.logger.Info("pre-filtering completed",
		zap.Int("initial", initial),
		zap.Int("left", len(kept)))

	return kept, Result{Method: MethodAI, Step: Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}}
}

// filterBatch asks the provider for one verdict line per posting and
// keeps postings positionally. Lines past the end of the response keep
// their postings: losing jobs silently is worse than passing a few
// extra to the full analysis.
func (f *Filter) filterBatch(ctx context.Context, client ai.Client, batch []*jobs.Posting, profile *jobs.Profile) ([]*jobs.Posting, error) {
	response, err := client.Complete(ctx, ai.Request{
		System:    verdictInstruction,
		User:      verdictPrompt(batch, profile),
		MaxTokens: 20 * len(batch),
	})
	if err != nil {
		return nil, err
	}

	f.logger.Debug("batch verdicts",
		zap.String(logger.FieldProvider, client.Provider()),
		zap.String("response", logger.TruncateForLog(response, 300)))

	lines := make([]string, 0, len(batch))
	for _, line := range strings.Split(response, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.ToUpper(line))
		}
	}

	kept := make([]*jobs.Posting, 0, len(batch))
	for i, posting := range batch {
		if i >= len(lines) {
			kept = append(kept, posting)
			continue
		}
		if keepVerdict(lines[i]) {
			kept = append(kept, posting)
		}
	}
	return kept, nil
}

func keepVerdict(line string) bool {
	if strings.Contains(line, "MAYBE") {
		return true
	}
	if strings.Contains(line, "NOT_RELEVANT") || strings.Contains(line, "NOT RELEVANT") {
		return false
	}
	return strings.Contains(line, "RELEVANT")
}

const verdictInstruction = "You are screening job postings for a candidate. " +
	"For each numbered job, respond with exactly one line in the form " +
	"\"<number>: RELEVANT\", \"<number>: MAYBE\", or \"<number>: NOT_RELEVANT\". " +
	"Output nothing else."

func verdictPrompt(batch []*jobs.Posting, profile *jobs.Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CANDIDATE PROFILE:\nDomain: %s\nSkills: %s\nPreferred roles: %s\nExcluded roles: %s\n\nJOBS:\n",
		profile.Domain,
		strings.Join(profile.Skills, ", "),
		strings.Join(profile.PreferredRoles, ", "),
		strings.Join(profile.ExcludedRoles, ", "))

	for i, posting := range batch {
		fmt.Fprintf(&b, "%d. %s at %s: %s\n",
			i+1, posting.Title, posting.Company,
			logger.TruncateForLog(posting.Description+" "+posting.Content, 300))
	}

	fmt.Fprintf(&b, "\nRespond with %d lines, one verdict per job, in order.", len(batch))
	return b.String()
}

// keywordPass scores each posting and keeps those above the threshold.
// The domain bonus applies only on the full-list path; per-batch
// recovery scores with keywords and skills alone.
func (f *Filter) keywordPass(postings []*jobs.Posting, profile *jobs.Profile, withDomain bool) []*jobs.Posting {
	kept := make([]*jobs.Posting, 0, len(postings))
	for _, posting := range postings {
		if score, excluded := scorePosting(posting, profile, withDomain); !excluded && score > KeepThreshold {
			kept = append(kept, posting)
		}
	}
	return kept
}

func scorePosting(posting *jobs.Posting, profile *jobs.Profile, withDomain bool) (score int, excluded bool) {
	content := strings.ToLower(posting.Title + " " + posting.Company + " " + posting.Description + " " + posting.Content)

	for _, kw := range techKeywords {
		if strings.Contains(content, kw) {
			score++
		}
	}
	for _, skill := range profile.Skills {
		if skill != "" && strings.Contains(content, strings.ToLower(skill)) {
			score += 3
		}
	}
	if withDomain && profile.Domain != "" && strings.Contains(content, strings.ToLower(profile.Domain)) {
		score += 2
	}
	for _, role := range profile.ExcludedRoles {
		if role != "" && strings.Contains(content, strings.ToLower(role)) {
			score -= 5
			excluded = true
		}
	}
	return score, excluded
}
