package validation

import (
	"strings"
	"unicode"
)

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1 // Drop the rune
	}, s)
}

// CleanField normalizes a single-line text field of an uploaded report.
func CleanField(s string) string {
	return strings.TrimSpace(StripUnprintable(s))
}

// CleanCode normalizes a code such as a currency or an operation name.
func CleanCode(s string) string {
	return strings.ToLower(CleanField(s))
}
