package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlockRe   = regexp.MustCompile("(?is)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	balancedBraceRe = regexp.MustCompile(`(?s)\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// extractJSON pulls a JSON object out of a model response. Responses
// rarely arrive as clean JSON, so it tries progressively looser
// methods and returns nil only when all of them fail.
func extractJSON(response string) map[string]any {
	// Method 1: the whole response is JSON.
	if result := tryParse(strings.TrimSpace(response)); result != nil {
		return result
	}

	// Method 2: a fenced code block.
	if m := fencedBlockRe.FindStringSubmatch(response); m != nil {
		if result := tryParse(m[1]); result != nil {
			return result
		}
	}

	// Method 3: any balanced-brace span, one nesting level deep.
	for _, candidate := range balancedBraceRe.FindAllString(response, -1) {
		if result := tryParse(candidate); result != nil {
			return result
		}
	}

	// Method 4: scan from the first brace, counting depth.
	if start := strings.IndexByte(response, '{'); start != -1 {
		depth := 0
		for i := start; i < len(response); i++ {
			switch response[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					if result := tryParse(response[start : i+1]); result != nil {
						return result
					}
					i = len(response)
				}
			}
		}
	}

	// Method 5: first { to last }, with common defects repaired.
	start := strings.IndexByte(response, '{')
	end := strings.LastIndexByte(response, '}')
	if start != -1 && end > start {
		candidate := response[start : end+1]
		candidate = strings.ReplaceAll(candidate, "\n", `\n`)
		candidate = trailingCommaRe.ReplaceAllString(candidate, "$1")
		if result := tryParse(candidate); result != nil {
			return result
		}
	}

	return nil
}

func tryParse(candidate string) map[string]any {
	var result map[string]any
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return nil
	}
	return result
}
