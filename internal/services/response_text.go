package services

import (
	"encoding/json"
	"strings"
)

const previewLength = 100

// stripCodeFences removes a markdown code fence (```json ... ``` or ``` ... ```)
// wrapped around a model response.
func stripCodeFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}

	t = strings.TrimPrefix(t, "```")
	// Drop the info string (json, JSON, ...) up to the end of the opening line.
	if nl := strings.IndexByte(t, '\n'); nl != -1 && !strings.ContainsAny(t[:nl], "{[") {
		t = t[nl+1:]
	} else {
		t = strings.TrimPrefix(strings.TrimPrefix(t, "json"), "JSON")
	}
	if idx := strings.LastIndex(t, "```"); idx != -1 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}

// decodeModelJSON strips fences and decodes the response into a generic value.
// Syntax errors are reported as *ParseError.
func decodeModelJSON(text string) (any, error) {
	cleaned := stripCodeFences(text)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, &ParseError{Preview: truncate(cleaned, previewLength), Err: err}
	}
	return v, nil
}

// truncate shortens s to at most maxLen runes, appending "..." when cut.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
