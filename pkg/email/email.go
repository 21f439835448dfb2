// Package email holds small helpers for notification recipients.
package email

import (
	"net/mail"
	"strings"
	"unicode"
)

// Valid reports whether address parses as a bare RFC 5322 address.
func Valid(address string) bool {
	parsed, err := mail.ParseAddress(address)
	return err == nil && parsed.Address == address
}

// DisplayName guesses a greeting name from the local part, so
// "priya.sharma@school.in" becomes "Priya Sharma". Falls back to fallback.
func DisplayName(address, fallback string) string {
	local := address
	if at := strings.IndexByte(address, '@'); at > 0 {
		local = address[:at]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+' || unicode.IsDigit(r)
	})
	if len(parts) == 0 {
		return fallback
	}
	if len(parts) > 2 {
		parts = []string{parts[0], parts[len(parts)-1]}
	}
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
