package jobs

import "strings"

// Profile is the single user profile driving relevance decisions and email
// drafting. Immutable per request; supplied fresh on every call.
type Profile struct {
	Name string `json:"name"`
	// Experience is a pointer so an explicit zero survives defaulting;
	// only an absent value falls back to the built-in profile.
	Experience            *int     `json:"experience,omitempty"`
	Domain                string   `json:"domain"`
	Skills                []string `json:"skills"`
	PreferredRoles        []string `json:"preferredRoles"`
	PreferredWorkTypes    []string `json:"preferredWorkType"`
	ExcludedRoles         []string `json:"excludedRoles"`
	PreferredCompanyTypes []string `json:"preferredCompanyTypes"`
	Email                 string   `json:"email"`
	Phone                 string   `json:"phone,omitempty"`
	ResumeURL             string   `json:"resumeUrl,omitempty"`
}

// DefaultProfile returns the built-in profile used when the extension
// supplies no value for a field.
func DefaultProfile() *Profile {
	experience := 1
	return &Profile{
		Name:                  "Alex Carter",
		Experience:            &experience,
		Domain:                "Python Backend Development + AI/ML",
		Skills:                []string{"Python", "Flask", "FastAPI", "TensorFlow"},
		PreferredRoles:        []string{"Backend Developer", "AI/ML Engineer"},
		PreferredWorkTypes:    []string{"Remote", "Hybrid"},
		ExcludedRoles:         []string{"Frontend", "Sales"},
		PreferredCompanyTypes: []string{"Tech startups"},
		Email:                 "alex.carter@example.com",
		Phone:                 "+1-555-0100",
	}
}

// ApplyDefaults fills empty fields from the built-in profile. Called once
// at the HTTP boundary so the core never sees a half-empty profile.
func (p *Profile) ApplyDefaults() {
	def := DefaultProfile()

	if strings.TrimSpace(p.Name) == "" {
		p.Name = def.Name
	}
	if p.Experience == nil {
		p.Experience = def.Experience
	}
	if strings.TrimSpace(p.Domain) == "" {
		p.Domain = def.Domain
	}
	if len(p.Skills) == 0 {
		p.Skills = def.Skills
	}
	if len(p.PreferredRoles) == 0 {
		p.PreferredRoles = def.PreferredRoles
	}
	if len(p.PreferredWorkTypes) == 0 {
		p.PreferredWorkTypes = def.PreferredWorkTypes
	}
	if len(p.ExcludedRoles) == 0 {
		p.ExcludedRoles = def.ExcludedRoles
	}
	if len(p.PreferredCompanyTypes) == 0 {
		p.PreferredCompanyTypes = def.PreferredCompanyTypes
	}
	if strings.TrimSpace(p.Email) == "" {
		p.Email = def.Email
	}
	if strings.TrimSpace(p.Phone) == "" {
		p.Phone = def.Phone
	}
}

// ExperienceYears returns the experience value, zero when unset.
func (p *Profile) ExperienceYears() int {
	if p.Experience != nil {
		return *p.Experience
	}
	return 0
}

// SecondaryDomain returns the specialization after the " + " separator in
// the domain label, or an empty string when there is none.
func (p *Profile) SecondaryDomain() string {
	if _, after, found := strings.Cut(p.Domain, " + "); found {
		return strings.TrimSpace(after)
	}
	return ""
}
