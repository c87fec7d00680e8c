// Package redact masks secrets in diff text before it leaves the machine.
//
// Patterns use ECMAScript-flavoured syntax (lazy quantifiers, lookarounds,
// [\s\S]) through regexp2, so rules written for editor tooling carry over
// unchanged. Every pattern is matched case-insensitively.
package redact

import (
	"time"

	"github.com/dlclark/regexp2"
)

// Placeholder replaces every match. It must not match any default pattern.
const Placeholder = "<redacted>"

// matchTimeout bounds a single pattern run against catastrophic backtracking.
const matchTimeout = 2 * time.Second

// DefaultPatterns covers PEM private keys, vendor-prefixed API secrets,
// JWT-shaped tokens, and generic key/token/secret/password assignments.
var DefaultPatterns = []string{
	`-----BEGIN [^-]+ PRIVATE KEY-----[\s\S]*?-----END [^-]+ PRIVATE KEY-----`,
	`sk-[A-Za-z0-9]{16,}`,
	`ghp_[A-Za-z0-9]{36}`,
	`github_pat_[A-Za-z0-9_]{22,}`,
	`xox[baprs]-[A-Za-z0-9-]{10,}`,
	`AKIA[0-9A-Z]{16}`,
	`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`,
	`(?:api|access|secret|token)[_-]?key\s*[:=]\s*['"]?[A-Za-z0-9_\-]{16,}['"]?`,
	`(?:key|token|secret|password)\w*\s*[:=]\s*['"]?[A-Za-z0-9_\-]{16,}['"]?`,
}

// Result is the redacted text together with the patterns that were skipped.
type Result struct {
	Text            string
	InvalidPatterns []string
}

// HasInvalidPatterns reports whether any pattern failed to compile or run.
func (r Result) HasInvalidPatterns() bool {
	return len(r.InvalidPatterns) > 0
}

// Redact applies patterns to text in order, each one seeing the output of the
// previous. Empty patterns are skipped. A pattern that fails to compile, or
// whose match times out, is recorded in InvalidPatterns and leaves the text as
// it was; the remaining patterns still run.
func Redact(text string, patterns []string) Result {
	res := Result{Text: text, InvalidPatterns: []string{}}

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		redacted, err := apply(res.Text, pattern)
		if err != nil {
			res.InvalidPatterns = append(res.InvalidPatterns, pattern)
			continue
		}
		res.Text = redacted
	}

	return res
}

// Validate returns the subset of patterns that do not compile.
func Validate(patterns []string) []string {
	invalid := []string{}
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if _, err := regexp2.Compile(pattern, regexp2.IgnoreCase); err != nil {
			invalid = append(invalid, pattern)
		}
	}
	return invalid
}

func apply(text, pattern string) (string, error) {
	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return "", err
	}
	re.MatchTimeout = matchTimeout

	return re.ReplaceFunc(text, func(regexp2.Match) string {
		return Placeholder
	}, -1, -1)
}
