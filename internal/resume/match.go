package resume

import (
	"math"
	"strings"
)

// Match is the outcome of matching a resume against job keywords.
type Match struct {
	RelevantSkills   []string            `json:"relevant_skills"`
	AllSkills        []string            `json:"all_skills"`
	SkillsCount      int                 `json:"skills_count"`
	TotalSkills      int                 `json:"total_skills"`
	MatchPercentage  float64             `json:"match_percentage"`
	SkillsByCategory map[string][]string `json:"skills_by_category"`
	Contact          Contact             `json:"contact_info"`
	Experience       Experience          `json:"experience"`
}

// MatchKeywords parses the resume and reports which of its skills match
// the supplied job keywords.
//
// A match is a symmetric substring test: the skill contained in the
// keyword or the keyword contained in the skill. That over-matches by
// intent ("java" matches "javascript"); it trades precision for recall
// and is a known false-positive source, not something to tighten here.
func MatchKeywords(path string, keywords []string) (*Match, error) {
	parsed, err := Parse(path)
	if err != nil {
		return nil, err
	}

	lowered := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(keyword)))
	}

	matching := make([]string, 0, len(parsed.Skills))
	for _, skill := range parsed.Skills {
		skillLower := strings.ToLower(skill)
		for _, keyword := range lowered {
			if keyword == "" {
				continue
			}
			if strings.Contains(keyword, skillLower) || strings.Contains(skillLower, keyword) {
				matching = append(matching, skill)
				break
			}
		}
	}

	percentage := float64(len(matching)) / math.Max(float64(len(lowered)), 1) * 100

	return &Match{
		RelevantSkills:   matching,
		AllSkills:        parsed.Skills,
		SkillsCount:      len(matching),
		TotalSkills:      len(parsed.Skills),
		MatchPercentage:  math.Round(percentage*100) / 100,
		SkillsByCategory: parsed.SkillsByCategory,
		Contact:          parsed.Contact,
		Experience:       parsed.Experience,
	}, nil
}
