package errors

import (
	"strings"
	"testing"
)

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple file", "sheet.pdf", false},
		{"absolute", "/tmp/sheet.pdf", false},
		{"nested relative", "out/practice/sheet.png", false},
		{"empty", "", true},
		{"null byte", "sheet\x00.pdf", true},
		{"control char", "sheet\n.pdf", true},
		{"directory", "out/", true},
		{"too long", strings.Repeat("a", 1025), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("error code = %q, want %q", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange("staves", 3, 1, 6); err != nil {
		t.Errorf("in range: %v", err)
	}
	if err := ValidateRange("staves", 7, 1, 6); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("above range: got %v", err)
	}
	if err := ValidateRange("gap", 2.5, 3.0, 20.0); !Is(err, ErrCodeInvalidInput) {
		t.Errorf("below range: got %v", err)
	}
	if err := ValidateRange("gap", 3.0, 3.0, 20.0); err != nil {
		t.Errorf("inclusive bound: %v", err)
	}
}
