package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls a single JSON object out of raw LLM completion text,
// tolerating the formatting quirks real completions exhibit: fenced code
// blocks, a leading/trailing sentence of prose, or a top-level array
// wrapping the object the caller actually wants. It performs no schema
// validation — that is genmodel/PerSlotGenerator's json_parse stage.
func ExtractJSON(raw string) (string, error) {
	s := repairFences(raw)

	if s == "" {
		return "", fmt.Errorf("extract json: empty completion")
	}

	if strings.HasPrefix(s, "[") {
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(s), &arr); err == nil && len(arr) > 0 {
			return string(arr[0]), nil
		}
	}

	if obj, ok := balancedObject(s); ok {
		return obj, nil
	}

	return "", fmt.Errorf("extract json: no balanced JSON object found in completion")
}

// repairFences strips markdown code fences and surrounding whitespace.
func repairFences(s string) string {
	s = strings.ReplaceAll(s, "```json\n", "")
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "\n```", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// balancedObject scans for the first top-level {...} span, honoring string
// literals and escapes so braces inside quoted text don't unbalance the
// count (a brace-counting scan, not a JSON parse — parsing happens after).
func balancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
