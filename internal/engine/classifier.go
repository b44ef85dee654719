package engine

import (
	"regexp"

	"github.com/halcyon-bi/dbspec/internal/enginerr"
)

// ErrorPattern maps one vendor error-text shape to a structured engine error.
// Message and the string values inside Extra may reference named capture
// groups from Regex using $name or ${name} syntax; groups that did not
// participate in the match substitute as empty strings.
//
// Pattern tables are declared once per adapter with regexp.MustCompile, so a
// malformed pattern fails at process startup rather than at call time, and
// are never mutated afterwards.
type ErrorPattern struct {
	Regex   *regexp.Regexp
	Message string
	Type    enginerr.ErrorType
	Extra   map[string]any
}

// Classify runs raw driver error text through an ordered pattern table. The
// first matching pattern wins; nil means no pattern matched, which is a
// normal outcome, not a failure.
func Classify(raw string, table []ErrorPattern) *enginerr.EngineError {
	for _, p := range table {
		idx := p.Regex.FindStringSubmatchIndex(raw)
		if idx == nil {
			continue
		}

		message := string(p.Regex.ExpandString(nil, p.Message, raw, idx))
		return enginerr.New(p.Type, message, expandExtra(p.Extra, p.Regex, raw, idx))
	}
	return nil
}

// expandExtra substitutes capture references inside the extra-data template.
// Only string leaves and string slices are templated; other values pass
// through unchanged.
func expandExtra(extra map[string]any, re *regexp.Regexp, raw string, idx []int) map[string]any {
	if len(extra) == 0 {
		return nil
	}

	out := make(map[string]any, len(extra))
	for key, value := range extra {
		switch v := value.(type) {
		case string:
			out[key] = string(re.ExpandString(nil, v, raw, idx))
		case []string:
			expanded := make([]string, len(v))
			for i, s := range v {
				expanded[i] = string(re.ExpandString(nil, s, raw, idx))
			}
			out[key] = expanded
		default:
			out[key] = v
		}
	}
	return out
}
