package utils

import (
	"strings"
	"unicode"
)

// NormalizeString trims whitespace and normalizes string input
func NormalizeString(s string) string {
	return strings.TrimSpace(s)
}

// DigitsOnly strips every non-digit character from a phone number.
// Ownership checks compare the digit sequences exactly, so "+1 (555)
// 012-3456" and "15550123456" are the same number here.
func DigitsOnly(phone string) string {
	var result strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// IsValidPhone performs basic phone validation
func IsValidPhone(phone string) bool {
	// Minimum reasonable phone length
	return len(DigitsOnly(phone)) >= 7
}
