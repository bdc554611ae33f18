// Package guard is the first line of defense: an ordered list of deny
// patterns run over normalized command text before any parsing. A match
// aborts the pipeline unconditionally, regardless of whether the text would
// otherwise be a valid command.
package guard

import (
	"io"
	"log/slog"
	"regexp"

	"github.com/cordon-lang/cordon/cmderrors"
)

// Pattern is a named deny rule.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

// defaultPatterns covers the textual shapes that turn a command runner into
// a code runner: evaluator access, scheduling, global-scope reach, storage
// and network primitives, markup injection, and string interpolation.
// Order matters only for which name a violation reports.
var defaultPatterns = []Pattern{
	{"evaluator invocation", regexp.MustCompile(`\beval\s*\(`)},
	{"dynamic function construction", regexp.MustCompile(`\bnew\s+Function\b|\bFunction\s*\(`)},
	{"timer scheduling", regexp.MustCompile(`\bset(?:Timeout|Interval)\s*\(`)},
	{"global scope access", regexp.MustCompile(`\b(?:document|window|globalThis|top|parent)\s*\.`)},
	{"browser storage access", regexp.MustCompile(`\b(?:localStorage|sessionStorage|indexedDB)\b`)},
	{"network request", regexp.MustCompile(`\bfetch\s*\(|\bXMLHttpRequest\b|\bWebSocket\b`)},
	{"dynamic module import", regexp.MustCompile(`\bimport\s*\(`)},
	{"inline script tag", regexp.MustCompile(`(?i)<\s*script\b`)},
	{"event handler assignment", regexp.MustCompile(`(?i)\bon\w+\s*=`)},
	{"javascript uri", regexp.MustCompile(`(?i)\bjavascript\s*:`)},
	{"template interpolation", regexp.MustCompile(`\$\{`)},
}

// Validator screens command text against the built-in deny patterns plus any
// caller-supplied extras. It is pure: no side effects beyond debug logging.
type Validator struct {
	patterns []Pattern
	logger   *slog.Logger
}

// NewValidator creates a validator. Extra patterns are checked after the
// built-in ones. A nil logger discards debug output.
func NewValidator(logger *slog.Logger, extra ...Pattern) *Validator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	patterns := make([]Pattern, 0, len(defaultPatterns)+len(extra))
	patterns = append(patterns, defaultPatterns...)
	patterns = append(patterns, extra...)
	return &Validator{patterns: patterns, logger: logger}
}

// Validate returns nil when text matches no deny pattern, or a
// SECURITY_VIOLATION error naming the first pattern that matched.
func (v *Validator) Validate(text string) error {
	for _, p := range v.patterns {
		if p.Re.MatchString(text) {
			v.logger.Debug("command blocked by deny pattern", "pattern", p.Name)
			return cmderrors.Newf(cmderrors.CodeSecurityViolation,
				"command blocked: %s", p.Name).WithContext("pattern", p.Name)
		}
	}
	return nil
}
