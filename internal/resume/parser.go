package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ParsedResume is the structured view of one resume file. Computed on
// demand from the file; never cached.
type ParsedResume struct {
	RawText          string              `json:"raw_text"`
	Skills           []string            `json:"skills"`
	SkillsByCategory map[string][]string `json:"skills_by_category"`
	SkillCount       int                 `json:"skill_count"`
	Contact          Contact             `json:"contact_info"`
	Experience       Experience          `json:"experience"`
	Education        Education           `json:"education"`
	Summary          string              `json:"summary"`
	FileName         string              `json:"file_name"`
	FileSize         int64               `json:"file_size"`
}

// Contact is contact information lifted from resume text.
type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Experience is a coarse work-experience signal.
type Experience struct {
	Years      int  `json:"years_of_experience"`
	HasSection bool `json:"has_experience_section"`
}

// Education is a coarse education signal.
type Education struct {
	Keywords   []string `json:"education_keywords"`
	HasSection bool     `json:"has_education_section"`
}

var (
	contactEmailRe  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	contactPhoneRe  = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedinRe      = regexp.MustCompile(`linkedin\.com/in/[\w-]+`)
	githubRe        = regexp.MustCompile(`github\.com/[\w-]+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	strippedCharsRe = regexp.MustCompile(`[^\w\s.,\-+#]`)

	// Multiple phrasings of "N years of experience". The maximum match
	// wins, which guards against conflicting mentions.
	experienceRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\+?\s*years?\s*of\s*experience`),
		regexp.MustCompile(`(\d+)\+?\s*years?\s*experience`),
		regexp.MustCompile(`experience\s*:?\s*(\d+)\+?\s*years?`),
	}

	educationKeywords = []string{
		"bachelor", "master", "phd", "doctorate", "degree", "university", "college",
		"b.tech", "m.tech", "b.sc", "m.sc", "mba", "engineering",
	}

	summaryRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(summary|objective|profile).*?(\n.*?\n|\z)`),
		regexp.MustCompile(`(?is)(about me|about).*?(\n.*?\n|\z)`),
	}
)

// Parse extracts text from the file and derives the structured resume view.
func Parse(path string) (*ParsedResume, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("resume file not found: %w", err)
	}

	text, err := ExtractText(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("could not extract text from %s", filepath.Base(path))
	}

	// Contact patterns need @ and / which cleaning strips, so they run
	// on the normalized text, everything else on the cleaned one.
	normalized := normalizeText(text)
	clean := cleanText(normalized)
	skills := extractSkills(clean)

	parsed := &ParsedResume{
		RawText:          text,
		Skills:           skills,
		SkillsByCategory: categorizeSkills(skills),
		SkillCount:       len(skills),
		Contact:          extractContact(normalized),
		Experience:       extractExperience(clean),
		Education:        extractEducation(clean),
		Summary:          extractSummary(clean),
		FileName:         filepath.Base(path),
		FileSize:         info.Size(),
	}

	return parsed, nil
}

// normalizeText lowercases and collapses whitespace.
func normalizeText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToLower(text), " "))
}

// cleanText additionally strips characters that interfere with lexicon
// matching.
func cleanText(normalized string) string {
	return strings.TrimSpace(strippedCharsRe.ReplaceAllString(normalized, " "))
}

// extractSkills finds lexicon skills as whole words, deduplicated
// case-insensitively, original casing recovered via title-casing.
func extractSkills(text string) []string {
	found := make([]string, 0, 16)
	seen := make(map[string]struct{})

	for _, p := range skillPatterns {
		if !p.re.MatchString(text) {
			continue
		}

		if _, dup := seen[p.skill]; dup {
			continue
		}
		seen[p.skill] = struct{}{}
		found = append(found, titleCase(p.skill))
	}

	return found
}

func categorizeSkills(skills []string) map[string][]string {
	categorized := make(map[string][]string, len(skillCategories))
	for _, category := range skillCategories {
		categorized[category] = []string{}
	}

	for _, category := range skillCategories {
		lexicon := skillLexicon[category]
		for _, skill := range skills {
			lower := strings.ToLower(skill)
			for _, known := range lexicon {
				if lower == known {
					categorized[category] = append(categorized[category], skill)
					break
				}
			}
		}
	}

	return categorized
}

func extractContact(text string) Contact {
	return Contact{
		Email:    contactEmailRe.FindString(text),
		Phone:    strings.TrimSpace(contactPhoneRe.FindString(text)),
		LinkedIn: linkedinRe.FindString(text),
		GitHub:   githubRe.FindString(text),
	}
}

func extractExperience(text string) Experience {
	years := 0
	for _, re := range experienceRes {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			if n, err := strconv.Atoi(match[1]); err == nil && n > years {
				years = n
			}
		}
	}

	return Experience{
		Years:      years,
		HasSection: strings.Contains(text, "experience") || strings.Contains(text, "work history"),
	}
}

func extractEducation(text string) Education {
	found := make([]string, 0, 4)
	for _, keyword := range educationKeywords {
		if strings.Contains(text, keyword) {
			found = append(found, keyword)
		}
	}

	return Education{
		Keywords:   found,
		HasSection: strings.Contains(text, "education") || strings.Contains(text, "qualification"),
	}
}

// extractSummary returns the summary/objective block when one exists,
// otherwise the opening lines, both length-capped.
func extractSummary(text string) string {
	for _, re := range summaryRes {
		if match := re.FindString(text); match != "" {
			summary := strings.TrimSpace(match)
			if len(summary) > 300 {
				summary = summary[:300] + "..."
			}
			return summary
		}
	}

	lines := strings.SplitN(text, "\n", 4)
	if len(lines) > 3 {
		lines = lines[:3]
	}
	opening := strings.TrimSpace(strings.Join(lines, " "))
	if len(opening) > 200 {
		opening = opening[:200] + "..."
	}
	return opening
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
