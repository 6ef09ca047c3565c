package stages

import "strings"

// ExtractJSON pulls the JSON value out of a model reply that may be wrapped
// in prose or markdown fences. It takes the substring between the first
// opening bracket/brace and the matching last closing one.
func ExtractJSON(raw string) (string, bool) {
	arrStart := strings.Index(raw, "[")
	objStart := strings.Index(raw, "{")

	start, closer := arrStart, "]"
	if start == -1 || (objStart != -1 && objStart < start) {
		start, closer = objStart, "}"
	}
	if start == -1 {
		return "", false
	}

	end := strings.LastIndex(raw, closer)
	if end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
