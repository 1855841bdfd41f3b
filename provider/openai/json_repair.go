package openai

// repairJSON attempts to fix common JSON formatting issues from LLM responses:
// trailing commas before a closing bracket and keys missing their opening quote.
func repairJSON(s string) string {
	return quoteKeys(dropTrailingCommas(s))
}

// dropTrailingCommas removes commas that directly precede } or ], ignoring
// anything inside string literals.
func dropTrailingCommas(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in))
	inString := false
	escaped := false

	for i := 0; i < len(in); i++ {
		ch := in[i]
		if inString {
			out = append(out, ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out = append(out, ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(in) && isSpace(in[j]) {
				j++
			}
			if j < len(in) && (in[j] == '}' || in[j] == ']') {
				continue
			}
		}
		out = append(out, ch)
	}
	return string(out)
}

// quoteKeys restores a missing opening quote before object keys.
// Example: `, title":` -> `, "title":`
func quoteKeys(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)

	i := 0
	for i < len(in) {
		ch := in[i]
		if ch != '{' && ch != ',' {
			out = append(out, ch)
			i++
			continue
		}

		out = append(out, ch)
		i++
		for i < len(in) && isSpace(in[i]) {
			out = append(out, in[i])
			i++
		}

		if i >= len(in) || !isLetter(in[i]) {
			continue
		}

		keyStart := i
		for i < len(in) && (isLetter(in[i]) || in[i] == '_') {
			i++
		}
		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			out = append(out, '"')
		}
		out = append(out, in[keyStart:i]...)
	}

	return string(out)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
