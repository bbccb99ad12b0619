package utils

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "clean string unchanged",
			input:    "Backend Engineer, Amsterdam",
			expected: "Backend Engineer, Amsterdam",
		},
		{
			name:     "strips newlines and tabs",
			input:    "line one\nline two\ttabbed",
			expected: "line oneline twotabbed",
		},
		{
			name:     "strips null and bell bytes",
			input:    "abc\x00def\x07ghi",
			expected: "abcdefghi",
		},
		{
			name:     "strips DEL",
			input:    "abc\x7fdef",
			expected: "abcdef",
		},
		{
			name:     "preserves unicode",
			input:    "café\x01 résumé",
			expected: "café résumé",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		"with\x00control\x1fbytes",
		"",
		"unicode: naïve",
	}
	for _, input := range inputs {
		once := Sanitize(input)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestSanitizeAll(t *testing.T) {
	if got := SanitizeAll(nil); got != nil {
		t.Errorf("SanitizeAll(nil) = %v, want nil", got)
	}

	got := SanitizeAll([]string{"go\x00lang", "clean"})
	if len(got) != 2 || got[0] != "golang" || got[1] != "clean" {
		t.Errorf("SanitizeAll = %v, want [golang clean]", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{
			name:     "shorter than limit unchanged",
			input:    "short",
			max:      1000,
			expected: "short",
		},
		{
			name:     "exact limit unchanged",
			input:    strings.Repeat("a", 10),
			max:      10,
			expected: strings.Repeat("a", 10),
		},
		{
			name:     "hard cutoff",
			input:    strings.Repeat("ab", 600),
			max:      1000,
			expected: strings.Repeat("ab", 500),
		},
		{
			name:     "zero budget",
			input:    "anything",
			max:      0,
			expected: "",
		},
		{
			name:     "multi-byte runes counted as characters",
			input:    "héllo wörld",
			max:      5,
			expected: "héllo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.max)
			if got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
			if len([]rune(got)) > tt.max {
				t.Errorf("Truncate returned %d runes, budget %d", len([]rune(got)), tt.max)
			}
		})
	}
}
