package cbse

import (
	"regexp"
	"strings"
)

var (
	affiliationPattern = regexp.MustCompile(`^\d{10}$`)
	rollPattern        = regexp.MustCompile(`^\d{7}$`)
)

// ValidAffiliationNumber accepts ten digits, optionally hyphenated.
func ValidAffiliationNumber(s string) bool {
	return affiliationPattern.MatchString(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
}

// FormatAffiliationNumber renders a valid number as XXXX-XX-XXXX and returns
// anything else unchanged.
func FormatAffiliationNumber(s string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), "-", "")
	if !affiliationPattern.MatchString(cleaned) {
		return s
	}
	return cleaned[:4] + "-" + cleaned[4:6] + "-" + cleaned[6:]
}

// ValidRollNumber accepts the seven-digit class 10 and class 12 roll numbers.
func ValidRollNumber(s string) bool {
	return rollPattern.MatchString(s)
}
