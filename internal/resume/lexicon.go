package resume

import "regexp"

// The curated skill lexicon, grouped by category. Matching is whole-word
// and case-insensitive; no NLP model is involved, which keeps the backend
// dependency-light at the cost of only knowing listed skills.
var skillLexicon = map[string][]string{
	"programming_languages": {
		"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust",
		"php", "ruby", "swift", "kotlin", "scala", "r", "matlab", "sql", "html", "css",
	},
	"frameworks": {
		"react", "angular", "vue", "svelte", "flask", "django", "fastapi", "express",
		"spring", "laravel", "rails", "asp.net", "tensorflow", "pytorch", "keras",
		"scikit-learn", "pandas", "numpy", "matplotlib", "seaborn", "opencv",
	},
	"databases": {
		"mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle", "cassandra",
		"elasticsearch", "dynamodb", "firebase", "neo4j",
	},
	"cloud_platforms": {
		"aws", "azure", "gcp", "google cloud", "heroku", "digitalocean", "vercel",
		"netlify", "cloudflare",
	},
	"tools": {
		"git", "docker", "kubernetes", "jenkins", "gitlab", "github", "jira",
		"confluence", "slack", "figma", "adobe", "photoshop", "illustrator",
	},
	"ai_ml": {
		"machine learning", "deep learning", "neural networks", "nlp", "computer vision",
		"data science", "artificial intelligence", "huggingface", "openai", "langchain",
		"transformers", "bert", "gpt", "llm", "chatbot",
	},
	"soft_skills": {
		"leadership", "communication", "teamwork", "problem solving", "analytical",
		"creative", "adaptable", "organized", "detail-oriented", "time management",
	},
}

// skillCategories fixes the category iteration order.
var skillCategories = []string{
	"programming_languages",
	"frameworks",
	"databases",
	"cloud_platforms",
	"tools",
	"ai_ml",
	"soft_skills",
}

func allSkills() []string {
	skills := make([]string, 0, 128)
	for _, category := range skillCategories {
		skills = append(skills, skillLexicon[category]...)
	}
	return skills
}

type skillPattern struct {
	skill string
	re    *regexp.Regexp
}

// Patterns are compiled once; whole-word match on the cleaned lowercase
// text. Known quirk: the trailing \b needs a word character after it, so
// skills ending in a symbol ("c++", "c#") never match.
var skillPatterns = func() []skillPattern {
	skills := allSkills()
	patterns := make([]skillPattern, 0, len(skills))
	for _, skill := range skills {
		patterns = append(patterns, skillPattern{
			skill: skill,
			re:    regexp.MustCompile(`\b` + regexp.QuoteMeta(skill) + `\b`),
		})
	}
	return patterns
}()
