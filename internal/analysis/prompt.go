package analysis

import (
	"fmt"
	"strings"

	"github.com/heetd/job-assistant/internal/jobs"
)

// systemInstruction pins the model to JSON-only output. Models still
// wrap the JSON in prose or code fences often enough that extraction
// stays multi-method anyway.
const systemInstruction = "You are a smart AI agent that helps automate job applications. " +
	"You MUST respond with valid JSON only, no additional text or explanations. " +
	"Follow the exact JSON format specified in the user prompt."

// analysisPrompt renders the full analysis request for a posting
// against the profile, including the expected response schema.
func analysisPrompt(jobContent string, profile *jobs.Profile) string {
	return fmt.Sprintf(`
You are a smart and structured AI agent that helps automate job applications for a developer named %[1]s.

%[1]s is a %[2]s professional with %[3]d year of industry experience. Your task is to analyze the following job post content and help automate the application workflow.

USER PROFILE:
- Name: %[1]s
- Experience: %[3]d year
- Domain: %[2]s
- Skills: %[4]s
- Preferred Roles: %[5]s
- Preferred Work Type: %[6]s
- Excluded Roles: %[7]s
- Preferred Company Types: %[8]s

JOB POST CONTENT:
%[9]s

INSTRUCTIONS:
1. Analyze if this job is relevant to the user's profile
2. Extract contact information if available
3. Generate a personalized application email if relevant
4. Return ONLY a valid JSON response in the exact format below (no additional text):

`+"```json"+`
{
  "status": "RELEVANT" or "NOT RELEVANT",
  "reason": "1-2 line explanation of your decision",
  "contact": "email@company.com or null",
  "email_subject": "Email subject line",
  "email_body": "Professional email body with personalized content",
  "attachment_required": true
}
`+"```"+`

IMPORTANT:
- Return ONLY the JSON, no other text
- Use double quotes for all strings
- If no contact email found, use null (not "null")
- Keep email content professional and concise
- Don't include newlines in JSON string values, use \n instead
`,
		profile.Name,
		profile.Domain,
		profile.ExperienceYears(),
		strings.Join(profile.Skills, ", "),
		strings.Join(profile.PreferredRoles, ", "),
		strings.Join(profile.PreferredWorkTypes, ", "),
		strings.Join(profile.ExcludedRoles, ", "),
		strings.Join(profile.PreferredCompanyTypes, ", "),
		jobContent)
}
