package analysis

import (
	"fmt"
	"strings"

	"github.com/heetd/job-assistant/internal/jobs"
)

// relevantKeywords are technologies whose presence counts toward
// relevance. Profile skills are appended to this list at check time.
var relevantKeywords = []string{
	"python", "flask", "fastapi", "django", "backend", "api",
	"machine learning", "ml", "ai", "artificial intelligence",
	"tensorflow", "pytorch", "scikit", "pandas", "numpy",
	"data science", "nlp", "computer vision", "deep learning",
}

// excludedKeywords disqualify a posting outright, regardless of how
// many relevant keywords it also contains.
var excludedKeywords = []string{
	"frontend", "react", "angular", "vue", "javascript only",
	"sales", "marketing", "business development", "hr",
	"devops only", ".net only", "php only", "java only",
	"android only", "ios only", "mobile only",
}

// checkRelevance decides relevance from keyword occurrence alone.
// Exclusions win unconditionally; otherwise the posting is relevant
// when it hits at least two keywords or names a preferred role.
func checkRelevance(jobContent string, profile *jobs.Profile) (bool, string) {
	keywords := make([]string, 0, len(relevantKeywords)+len(profile.Skills))
	keywords = append(keywords, relevantKeywords...)
	for _, skill := range profile.Skills {
		keywords = append(keywords, strings.ToLower(skill))
	}

	relevantCount := 0
	for _, kw := range keywords {
		if strings.Contains(jobContent, kw) {
			relevantCount++
		}
	}

	for _, kw := range excludedKeywords {
		if strings.Contains(jobContent, kw) {
			return false, "Job contains excluded technologies or roles that don't match your profile"
		}
	}
	for _, role := range profile.ExcludedRoles {
		if strings.Contains(jobContent, strings.ToLower(role)) {
			return false, "Job contains excluded technologies or roles that don't match your profile"
		}
	}

	roleMatch := false
	for _, role := range profile.PreferredRoles {
		if strings.Contains(jobContent, strings.ToLower(role)) {
			roleMatch = true
			break
		}
	}

	if relevantCount >= 2 || roleMatch {
		reason := fmt.Sprintf("Job matches your %s profile with relevant technologies and skills", profile.Domain)
		return true, reason
	}

	return false, "Job doesn't contain enough relevant keywords or technologies for your profile"
}

// ruleBasedAnalysis runs the keyword decision and, for relevant
// postings, generates the application email.
func ruleBasedAnalysis(job *jobs.Posting, profile *jobs.Profile) *jobs.Analysis {
	relevant, reason := checkRelevance(strings.ToLower(job.Text()), profile)

	if !relevant {
		return &jobs.Analysis{
			Status: jobs.StatusNotRelevant,
			Reason: reason,
		}
	}

	contact := job.FirstContactEmail()
	subject, body := composeEmail(job, profile)

	return &jobs.Analysis{
		Status:             jobs.StatusRelevant,
		Reason:             reason,
		Contact:            contact,
		EmailSubject:       subject,
		EmailBody:          body,
		AttachmentRequired: true,
	}
}
