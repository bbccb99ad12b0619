package common

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name             string
		format           string
		supportedFormats []string
		expectError      bool
	}{
		{
			name:             "valid format - json",
			format:           "json",
			supportedFormats: []string{"json", "text", "markdown"},
			expectError:      false,
		},
		{
			name:             "valid format - text",
			format:           "text",
			supportedFormats: []string{"json", "text", "markdown"},
			expectError:      false,
		},
		{
			name:             "invalid format - xml",
			format:           "xml",
			supportedFormats: []string{"json", "text", "markdown"},
			expectError:      true,
		},
		{
			name:             "no restrictions configured",
			format:           "anything",
			supportedFormats: nil,
			expectError:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supportedFormats)
			if tt.expectError && err == nil {
				t.Errorf("expected error for format %q, got nil", tt.format)
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error for format %q: %v", tt.format, err)
			}
		})
	}
}

func TestValidateOutputFormatErrorMessage(t *testing.T) {
	err := ValidateOutputFormat("xml", []string{"json", "text"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unsupported output format 'xml'") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestGetSupportedFormats(t *testing.T) {
	if got := GetSupportedFormats([]string{"json"}); len(got) != 1 || got[0] != "json" {
		t.Errorf("expected configured formats, got %v", got)
	}
	if got := GetSupportedFormats(nil); len(got) != 3 {
		t.Errorf("expected default formats, got %v", got)
	}
}
