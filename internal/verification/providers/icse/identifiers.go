package icse

import (
	"regexp"
	"strings"
)

var (
	councilPattern = regexp.MustCompile(`^\d{6}$`)
	indexPattern   = regexp.MustCompile(`^\d{6,7}$`)
)

// ValidCouncilNumber accepts six-digit council numbers.
func ValidCouncilNumber(s string) bool {
	return councilPattern.MatchString(s)
}

// FormatCouncilNumber strips spaces and left-pads to six digits.
func FormatCouncilNumber(s string) string {
	cleaned := strings.Join(strings.Fields(s), "")
	for len(cleaned) < 6 {
		cleaned = "0" + cleaned
	}
	return cleaned
}

// ValidIndexNumber accepts six or seven digit candidate index numbers.
func ValidIndexNumber(s string) bool {
	return indexPattern.MatchString(s)
}
