package internal

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Matches a JSON object with at most one level of nested objects. Deeper
// nesting is truncated at the inner close brace; callers relying on command
// extraction must keep command objects flat.
var jsonBlockPattern = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

// Extractor scans model output for embedded command objects keyed by a
// fixed command-key name and dispatches them to an executor.
type Extractor struct {
	key   string
	loose *regexp.Regexp
	exec  func(cmd json.RawMessage) string
}

func NewExtractor(key string, exec func(cmd json.RawMessage) string) *Extractor {
	return &Extractor{
		key:   key,
		loose: regexp.MustCompile(`\{"` + regexp.QuoteMeta(key) + `":[^}]+\}`),
		exec:  exec,
	}
}

func (e *Extractor) Key() string {
	return e.key
}

// Handle finds command objects in output and executes them in order of
// appearance. The first command producing a non-empty result wins; an
// empty result is not an error and the scan continues. Returns "" when no
// command executed. Identical input always yields an identical result.
func (e *Extractor) Handle(output string) string {
	if !strings.Contains(output, e.key) || !strings.Contains(output, "{") {
		return ""
	}

	if !e.loose.MatchString(output) {
		debugf("extract", "hook-related text without proper JSON format for key %q", e.key)
		// Continue anyway, the loose pattern does not catch all valid forms.
	}

	for _, candidate := range jsonBlockPattern.FindAllString(output, -1) {
		if !strings.Contains(candidate, e.key) {
			continue
		}

		if !json.Valid([]byte(candidate)) {
			debugf("extract", "skipping malformed candidate: %s", truncate(candidate, 100))
			continue
		}

		if result := e.exec(json.RawMessage(candidate)); result != "" {
			return result
		}
	}

	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
