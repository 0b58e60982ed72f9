package repository

import (
	"regexp"
	"strings"
)

var (
	separatorPattern  = regexp.MustCompile(`[/_-]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// BuildCategoryPattern converts a raw category query into a relaxed,
// token-ordered regular expression: separators (/ _ -) collapse to spaces,
// whitespace collapses, the result is split into tokens, each token is
// escaped for literal matching, and the tokens are joined with ".*" so a
// category must contain every token in that order. "lo-fi_beats" becomes
// "lo.*fi.*beats", which matches "Lofi Study Beats" but not "beats lofi".
func BuildCategoryPattern(query string) string {
	trimmed := strings.TrimSpace(query)
	normalized := separatorPattern.ReplaceAllString(trimmed, " ")
	normalized = strings.TrimSpace(whitespacePattern.ReplaceAllString(normalized, " "))

	if normalized == "" {
		return regexp.QuoteMeta(trimmed)
	}

	tokens := strings.Split(normalized, " ")
	escaped := make([]string, len(tokens))
	for i, token := range tokens {
		escaped[i] = regexp.QuoteMeta(token)
	}
	return strings.Join(escaped, ".*")
}
