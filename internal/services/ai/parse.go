package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("```(?:json)?\n?|\n?```")

// StripFences removes markdown code fences that models sometimes wrap
// around JSON responses.
func StripFences(content string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(content, ""))
}

// ParseJSONObject parses content into dst, recovering when the model
// surrounds the JSON object with prose or fences.
func ParseJSONObject(content string, dst any) error {
	raw := StripFences(content)
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start != -1 && end != -1 && end > start {
			raw = raw[start : end+1]
		}
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return fmt.Errorf("failed to parse JSON response: %w", err)
		}
	}
	return nil
}

// ParseJSONArray parses content into dst, recovering when the model
// surrounds the JSON array with prose or fences.
func ParseJSONArray(content string, dst any) error {
	raw := StripFences(content)
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		start := strings.Index(raw, "[")
		end := strings.LastIndex(raw, "]")
		if start != -1 && end != -1 && end > start {
			raw = raw[start : end+1]
		}
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return fmt.Errorf("failed to parse JSON response: %w", err)
		}
	}
	return nil
}
