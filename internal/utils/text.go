package utils

import "strings"

var nbsp = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "\u2009", " ")

// Sanitize turns NBSP into spaces, collapses whitespace runs and trims.
// Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(nbsp.Replace(s)), " ")
}

// Key is the comparison form of a party name: sanitized and lowercased.
// "  john   doe " and "John Doe" share a key.
func Key(s string) string {
	return strings.ToLower(Sanitize(s))
}

// HeaderKey is the lookup form of a column label: trimmed and uppercased.
func HeaderKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
