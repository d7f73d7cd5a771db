package jobs

// Analysis statuses. ERROR means "do not send an email".
const (
	StatusRelevant    = "RELEVANT"
	StatusNotRelevant = "NOT_RELEVANT"
	StatusError       = "ERROR"
)

// Analysis is the result of analyzing one posting against the profile.
//
// Invariants: when Status is not RELEVANT the email subject/body are empty
// and AttachmentRequired is false; when Status is RELEVANT
// AttachmentRequired is always true.
type Analysis struct {
	Status             string `json:"status"`
	Reason             string `json:"reason"`
	Contact            string `json:"contact,omitempty"`
	EmailSubject       string `json:"email_subject"`
	EmailBody          string `json:"email_body"`
	AttachmentRequired bool   `json:"attachment_required"`

	// Resume enrichment, merged in after the relevance decision.
	ResumeSkillsUsed      bool     `json:"resume_skills_used"`
	ResumeSkillsCount     int      `json:"resume_skills_count"`
	RelevantResumeSkills  []string `json:"relevant_resume_skills"`
	TotalResumeSkills     int      `json:"total_resume_skills"`
	SkillsMatchPercentage float64  `json:"skills_match_percentage"`
	HasResume             bool     `json:"has_resume"`
}

// ErrorAnalysis is the universal terminal failure state.
func ErrorAnalysis(reason string) *Analysis {
	return &Analysis{
		Status: StatusError,
		Reason: "Analysis failed: " + reason,
	}
}
