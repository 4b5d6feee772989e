package proofread

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeFenceRegex = regexp.MustCompile("```[a-zA-Z]*[ \t]*\r?\n?")

// strips markdown code fences the models like to wrap output in
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = codeFenceRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// fixes invalid JSON escape sequences like \N (subtitle newline).
// It replaces \N with \\N so JSON can parse it, preserving the literal \N in the output.
func fixInvalidEscapes(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	i := 0
	for i < len(s) {
		if i < len(s)-1 && s[i] == '\\' {
			next := s[i+1]
			switch next {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
				result.WriteByte(s[i])
				result.WriteByte(s[i+1])
				i += 2
			default:
				result.WriteString("\\\\")
				result.WriteByte(next)
				i += 2
			}
		} else {
			result.WriteByte(s[i])
			i++
		}
	}

	return result.String()
}

// extractJSONList finds the first JSON array in text, bare or under a
// wrapper object key, that decodes into []T and passes valid.
func extractJSONList[T any](text string, valid func([]T) bool) ([]T, error) {
	text = fixInvalidEscapes(cleanResponse(text))

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			continue
		}
		if results, ok := tryExtractList(raw, valid); ok {
			return results, nil
		}
	}
	return nil, fmt.Errorf("no valid JSON list found in response")
}

func tryExtractList[T any](raw json.RawMessage, valid func([]T) bool) ([]T, bool) {
	var results []T
	if err := json.Unmarshal(raw, &results); err == nil && valid(results) {
		return results, true
	}

	wrapperKeys := []string{"terms", "results", "items", "data"}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, false
	}

	for _, key := range wrapperKeys {
		if fieldRaw, exists := wrapper[key]; exists {
			var fieldResults []T
			if err := json.Unmarshal(fieldRaw, &fieldResults); err == nil && valid(fieldResults) {
				return fieldResults, true
			}
		}
	}

	for _, fieldRaw := range wrapper {
		var fieldResults []T
		if err := json.Unmarshal(fieldRaw, &fieldResults); err == nil && valid(fieldResults) {
			return fieldResults, true
		}
	}

	return nil, false
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
