package utils

import "strings"

// Sanitize strips ASCII control characters (0x00-0x1F and DEL) from s.
// Upstream profile and resume text occasionally carries raw control
// bytes that would corrupt a prompt or a JSON round-trip. Idempotent.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SanitizeAll sanitizes every element of a string slice, returning a
// new slice. A nil input stays nil.
func SanitizeAll(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = Sanitize(s)
	}
	return out
}

// Truncate returns the first max characters of s as a hard cutoff,
// not sentence-aware. Counts runes so a multi-byte character is never
// split mid-sequence.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
