package action

import "strings"

// ExtractJSON pulls a JSON object out of possibly Markdown-fenced LLM
// output. It tries, in order: (a) the whole trimmed input is already an
// object; (b) a ```json fenced block; (c) a generic ``` fenced block whose
// first non-language-tag line begins with '{'; (d) a last-resort scan from
// the first '{' to the last '}'. Returns ("", false) if nothing usable is
// found.
func ExtractJSON(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		return trimmed, true
	}

	if body, ok := fencedBlock(trimmed, "```json"); ok {
		return body, true
	}

	if body, ok := genericFence(trimmed); ok {
		return body, true
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		return trimmed[start : end+1], true
	}

	return "", false
}

func fencedBlock(text, openTag string) (string, bool) {
	idx := strings.Index(text, openTag)
	if idx < 0 {
		return "", false
	}
	rest := text[idx+len(openTag):]
	closeIdx := strings.Index(rest, "```")
	if closeIdx < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:closeIdx]), true
}

// genericFence locates a ``` ... ``` block (no language tag required),
// skips a language-tag line if the fence opens with one, and requires the
// remaining inner text to begin with '{'.
func genericFence(text string) (string, bool) {
	idx := strings.Index(text, "```")
	if idx < 0 {
		return "", false
	}
	rest := text[idx+3:]
	closeIdx := strings.Index(rest, "```")
	if closeIdx < 0 {
		return "", false
	}
	inner := rest[:closeIdx]

	// Skip a bare language-tag line (e.g. "json\n" or "\n" immediately
	// after the fence) before checking for the opening brace.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(inner[:nl])
		if firstLine != "" && !strings.HasPrefix(firstLine, "{") {
			inner = inner[nl+1:]
		}
	}

	inner = strings.TrimSpace(inner)
	if !strings.HasPrefix(inner, "{") {
		return "", false
	}
	return inner, true
}
