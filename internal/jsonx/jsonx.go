// Package jsonx recovers JSON objects from LLM text output. Models are
// instructed to answer with a single JSON object, but in practice the
// object sometimes arrives wrapped in markdown fences or surrounded by
// prose. The decoder tries progressively more aggressive recovery and
// reports failure with a boolean instead of an error.
package jsonx

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Object extracts a single JSON object from text.
// Recovery ladder:
//  1. direct parse of the trimmed text;
//  2. strip markdown code fences and retry;
//  3. parse the substring from the first '{' to the last '}'.
//
// Returns (nil, false) when no object can be recovered.
func Object(text string) (json.RawMessage, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, false
	}

	if raw, ok := tryObject(s); ok {
		return raw, true
	}

	if raw, ok := tryObject(stripFences(s)); ok {
		return raw, true
	}

	// Highest-yield heuristic: the model prepended or appended prose
	// around an otherwise valid object.
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		if raw, ok := tryObject(s[start : end+1]); ok {
			return raw, true
		}
	}

	return nil, false
}

// Decode extracts a JSON object from text and unmarshals it into v.
func Decode(text string, v any) bool {
	raw, ok := Object(text)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func tryObject(s string) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return nil, false
	}
	// Compact so that repeated decoding of already-clean input yields
	// a stable representation.
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return nil, false
	}
	return json.RawMessage(buf.Bytes()), true
}

// stripFences removes a leading ```/```json marker and a trailing ```
// fence, leaving the body untouched.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
