package analysis

import (
	"fmt"
	"strings"

	"github.com/heetd/job-assistant/internal/jobs"
)

// composeEmail builds the application email subject and body from a
// fixed template. Used on the rule-based path; the AI path writes its
// own email.
func composeEmail(job *jobs.Posting, profile *jobs.Profile) (subject, body string) {
	jobTitle := job.Title
	if jobTitle == "" {
		jobTitle = "the position"
	}
	companyName := job.Company
	if companyName == "" {
		companyName = "your company"
	}

	subject = fmt.Sprintf("Application for %s - %s", jobTitle, profile.Name)

	skills := profile.Skills
	if len(skills) > 3 {
		skills = skills[:3]
	}
	secondary := profile.SecondaryDomain()
	if secondary == "" {
		secondary = "Full-stack development"
	}

	body = fmt.Sprintf(`Dear Hiring Team,

I hope this email finds you well. I came across your job posting for %s at %s and I'm excited to apply for this opportunity.

As a %s professional with %d year of industry experience, I believe I would be a valuable addition to your team. My technical expertise includes:

• Backend development using %s
• %s
• Building scalable systems and APIs

What particularly interests me about this role is the opportunity to work with cutting-edge technologies and contribute to innovative projects. I'm passionate about creating efficient, maintainable code and staying up-to-date with the latest industry trends.

I would love to discuss how my skills and experience align with your team's needs. Please find my resume attached for your review.

Thank you for considering my application. I look forward to hearing from you.

Best regards,
%s
%s
%s`,
		jobTitle, companyName,
		profile.Domain, profile.ExperienceYears(),
		strings.Join(skills, ", "),
		secondary,
		profile.Name, profile.Email, profile.Phone)

	return subject, body
}
