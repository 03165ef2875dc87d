package nlu

import "strings"

// ExtractJSON trims model chatter and code fences around a JSON object so the
// remainder can be unmarshalled. Returns an empty string when no object is
// present.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
