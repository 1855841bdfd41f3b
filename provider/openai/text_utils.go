package openai

import "strings"

// scrubString removes characters that confuse JSON-mode models and trims whitespace.
// Commas, apostrophes and hyphens are kept since they appear in place names.
func scrubString(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune("\"`{}[]<>\\", r) {
			return -1
		}
		if r == '\n' || r == '\t' || r == '\r' {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// stripCodeFences removes markdown code fences some models wrap JSON in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
