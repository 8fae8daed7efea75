package rewrite

import (
	"strings"

	"github.com/genforge/genforge/internal/genmodel"
)

// SanitizeStringLiteralWhitespace trims leading/trailing raw spaces and tabs
// from every Java string literal in source, unless the literal is entirely
// whitespace. Backslash escapes are left untouched; only literal space/tab
// bytes at the boundary are affected.
func SanitizeStringLiteralWhitespace(source string) (string, genmodel.RewriteRecord) {
	spans := javaStringLiteralSpans(source)
	out := []byte(source)
	changed := false

	for i := len(spans) - 1; i >= 0; i-- {
		start, end := spans[i][0], spans[i][1]
		content := string(out[start+1 : end-1])
		if strings.TrimSpace(content) == "" {
			continue
		}
		trimmed := strings.Trim(content, " \t")
		if trimmed == content {
			continue
		}
		changed = true
		literal := append([]byte{'"'}, append([]byte(trimmed), '"')...)
		tail := append(literal, out[end:]...)
		out = append(out[:start], tail...)
	}

	detail := ""
	if changed {
		detail = "trimmed boundary whitespace in string literals"
	}
	return string(out), genmodel.RewriteRecord{ID: "sanitize_string_literal_whitespace", Applied: changed, Detail: detail}
}

// javaStringLiteralSpans returns the [start,end) byte ranges of every
// double-quoted string literal in source (quotes included), skipping
// comments and char literals so braces/quotes inside them are never
// mistaken for literal boundaries.
func javaStringLiteralSpans(source string) [][2]int {
	const (
		code = iota
		lineComment
		blockComment
		stringLit
		charLit
	)

	var spans [][2]int
	mode := code
	start := 0

	for i := 0; i < len(source); {
		c := source[i]
		switch mode {
		case code:
			switch {
			case c == '/' && i+1 < len(source) && source[i+1] == '/':
				mode = lineComment
				i += 2
			case c == '/' && i+1 < len(source) && source[i+1] == '*':
				mode = blockComment
				i += 2
			case c == '"':
				mode = stringLit
				start = i
				i++
			case c == '\'':
				mode = charLit
				i++
			default:
				i++
			}
		case lineComment:
			if c == '\n' {
				mode = code
			}
			i++
		case blockComment:
			if c == '*' && i+1 < len(source) && source[i+1] == '/' {
				mode = code
				i += 2
				continue
			}
			i++
		case stringLit:
			if c == '\\' && i+1 < len(source) {
				i += 2
				continue
			}
			if c == '"' {
				spans = append(spans, [2]int{start, i + 1})
				mode = code
			}
			i++
		case charLit:
			if c == '\\' && i+1 < len(source) {
				i += 2
				continue
			}
			if c == '\'' {
				mode = code
			}
			i++
		}
	}
	return spans
}
