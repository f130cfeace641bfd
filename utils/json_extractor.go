package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSONFound is returned when no valid JSON object/array is found in the input
var ErrNoJSONFound = errors.New("no valid JSON object or array found in response")

var markdownJSONBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON pulls a valid JSON object or array out of an LLM response
// that may wrap it in markdown fences or surround it with prose.
func ExtractJSON(response string) (string, error) {
	if response == "" {
		return "", ErrNoJSONFound
	}

	cleaned := extractFromMarkdown(response)

	if jsonStr := extractByBrackets(cleaned); jsonStr != "" && json.Valid([]byte(jsonStr)) {
		return jsonStr, nil
	}

	if trimmed := strings.TrimSpace(cleaned); json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	// Last resort: first opening bracket to last closing bracket
	if jsonStr := aggressiveExtract(response); jsonStr != "" && json.Valid([]byte(jsonStr)) {
		return jsonStr, nil
	}

	return "", fmt.Errorf("%w: response length=%d", ErrNoJSONFound, len(response))
}

// ExtractJSONTo extracts JSON from response and unmarshals it into target
func ExtractJSONTo(response string, target interface{}) error {
	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(jsonStr), target)
}

func extractFromMarkdown(s string) string {
	if m := markdownJSONBlock.FindStringSubmatch(s); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return s
}

// extractByBrackets finds the first balanced {...} or [...] span, skipping
// brackets inside string literals.
func extractByBrackets(s string) string {
	start := -1
	var open, close byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			open = s[i]
			if open == '{' {
				close = '}'
			} else {
				close = ']'
			}
			break
		}
	}
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == open:
			depth++
		case !inString && c == close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func aggressiveExtract(s string) string {
	firstObj := strings.IndexByte(s, '{')
	firstArr := strings.IndexByte(s, '[')

	start := firstObj
	end := strings.LastIndexByte(s, '}')
	if firstArr != -1 && (firstObj == -1 || firstArr < firstObj) {
		start = firstArr
		end = strings.LastIndexByte(s, ']')
	}

	if start == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
