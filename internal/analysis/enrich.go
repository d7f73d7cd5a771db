package analysis

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/heetd/job-assistant/internal/jobs"
	"github.com/heetd/job-assistant/internal/resume"
)

// enrichmentAnchor is the sentence the skills mention is spliced after.
// Template bodies are guaranteed to contain it; AI bodies usually are
// not, in which case the splice no-ops. That no-op is expected.
const enrichmentAnchor = "I believe I would be a valuable addition to your team."

// jobTechTerms is the vocabulary scanned for in job text to derive
// keywords for resume matching.
var jobTechTerms = []string{
	"python", "java", "javascript", "react", "angular", "vue", "flask", "django",
	"fastapi", "node", "express", "mongodb", "postgresql", "mysql", "redis",
	"aws", "azure", "gcp", "docker", "kubernetes", "git", "jenkins", "ci/cd",
	"machine learning", "ai", "deep learning", "tensorflow", "pytorch",
	"api", "rest", "graphql", "microservices", "agile", "scrum",
}

// enrichWithResume merges resume skill matches into an analysis result.
// Without a readable resume the result only records has_resume; matching
// failures degrade to the unenriched result, never to an error.
func enrichWithResume(result *jobs.Analysis, job *jobs.Posting, profile *jobs.Profile, log *zap.Logger) {
	result.RelevantResumeSkills = []string{}

	path := profile.ResumeURL
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	result.HasResume = true

	jobText := strings.ToLower(job.Title + " " + job.Description + " " + job.Content)
	keywords := make([]string, 0, len(jobTechTerms))
	for _, term := range jobTechTerms {
		if strings.Contains(jobText, term) {
			keywords = append(keywords, term)
		}
	}

	match, err := resume.MatchKeywords(path, keywords)
	if err != nil {
		log.Warn("resume matching failed", zap.String("path", path), zap.Error(err))
		return
	}

	relevant := match.RelevantSkills
	result.ResumeSkillsUsed = len(relevant) > 0
	result.ResumeSkillsCount = len(relevant)
	if len(relevant) > 10 {
		relevant = relevant[:10]
	}
	result.RelevantResumeSkills = relevant
	result.TotalResumeSkills = match.TotalSkills
	result.SkillsMatchPercentage = match.MatchPercentage

	spliceSkillsMention(result)
}

// spliceSkillsMention appends a sentence naming the top matched skills
// after the anchor phrase. Skipped when the body already mentions a
// resume or the anchor is absent.
func spliceSkillsMention(result *jobs.Analysis) {
	if result.Status != jobs.StatusRelevant || len(result.RelevantResumeSkills) == 0 {
		return
	}
	if strings.Contains(strings.ToLower(result.EmailBody), "resume") {
		return
	}
	if !strings.Contains(result.EmailBody, enrichmentAnchor) {
		return
	}

	top := result.RelevantResumeSkills
	if len(top) > 5 {
		top = top[:5]
	}
	mention := fmt.Sprintf("%s My resume highlights my expertise in %s, which directly aligns with your requirements.",
		enrichmentAnchor, strings.Join(top, ", "))
	result.EmailBody = strings.Replace(result.EmailBody, enrichmentAnchor, mention, 1)
}
