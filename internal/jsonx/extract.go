// ABOUTME: Recovers a single well-formed JSON value from raw LLM output
// ABOUTME: Survives code fences, invisible runes, noise, and trailing junk
package jsonx

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fenceOpenRe  = regexp.MustCompile("(?i)^`{3}(?:json)?[ \t]*\r?\n?")
	fenceCloseRe = regexp.MustCompile("\\s*`{3}$")

	greedyObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
	greedyArrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
)

// invisibleRunes are Unicode whitespace/zero-width characters models are
// known to emit and which corrupt downstream JSON parsing.
var invisibleRunes = map[rune]bool{
	'\u00a0': true,
	'\u2007': true,
	'\u2009': true,
	'\u200a': true,
	'\u200b': true,
	'\u200c': true,
	'\u200d': true,
	'\u202f': true,
	'\u2060': true,
}

// PreSanitize strips surrounding code-fence markers and invisible Unicode
// characters from raw model output.
func PreSanitize(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		t = fenceOpenRe.ReplaceAllString(t, "")
		t = fenceCloseRe.ReplaceAllString(t, "")
	}
	t = strings.Map(func(r rune) rune {
		if invisibleRunes[r] {
			return -1
		}
		return r
	}, t)
	return strings.TrimSpace(t)
}

// ExtractObject recovers the first JSON object from raw model output.
// Returns ok=false when nothing parseable is found; it never panics or
// returns an error, so callers can escalate (retry with a stricter
// instruction) without treating a bad reply as fatal.
func ExtractObject(text string) (map[string]any, bool) {
	t := PreSanitize(text)

	if raw, ok := scanBalanced(t, '{', '}'); ok {
		if obj, ok := asObject(raw); ok {
			return obj, true
		}
	}
	if obj, ok := asObject(t); ok {
		return obj, true
	}
	if m := greedyObjectRe.FindString(t); m != "" {
		if obj, ok := asObject(m); ok {
			return obj, true
		}
	}
	return nil, false
}

// ExtractArray recovers the first JSON array from raw model output.
func ExtractArray(text string) ([]any, bool) {
	t := PreSanitize(text)

	if raw, ok := scanBalanced(t, '[', ']'); ok {
		if arr, ok := asArray(raw); ok {
			return arr, true
		}
	}
	if arr, ok := asArray(t); ok {
		return arr, true
	}
	if m := greedyArrayRe.FindString(t); m != "" {
		if arr, ok := asArray(m); ok {
			return arr, true
		}
	}
	return nil, false
}

// scanBalanced finds the first syntactically balanced open...close span,
// respecting string literals and escape sequences so that delimiters inside
// string values (e.g. JSON describing JSON) do not break the count. When a
// balanced span fails to parse it keeps extending from the same start, so
// progressively longer spans get a chance.
func scanBalanced(t string, open, close byte) (string, bool) {
	start := -1
	depth := 0
	inStr := false
	esc := false

	for i := 0; i < len(t); i++ {
		ch := t[i]
		if start < 0 {
			if ch == open {
				start = i
				depth = 1
			}
			continue
		}
		if inStr {
			switch {
			case esc:
				esc = false
			case ch == '\\':
				esc = true
			case ch == '"':
				inStr = false
			}
			continue
		}
		switch ch {
		case '"':
			inStr = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				cand := t[start : i+1]
				if json.Valid([]byte(cand)) {
					return cand, true
				}
			}
		}
	}
	return "", false
}

func asObject(raw string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

func asArray(raw string) ([]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}
