package recon

import (
	"regexp"
	"strings"
)

// refPattern builds the matcher for payment references embedded in bank memo
// text: the fixed prefix followed by at least six alphanumerics, on a word
// boundary, case-insensitive.
func refPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(prefix) + `[A-Z0-9]{6,}\b`)
}

// extractReference scans the given fields in order and returns the first
// payment reference token, normalized to uppercase. Empty string means no
// token was found; many bank transfers are simply unrelated.
func extractReference(re *regexp.Regexp, fields ...string) string {
	for _, f := range fields {
		if match := re.FindString(f); match != "" {
			return strings.ToUpper(match)
		}
	}
	return ""
}
