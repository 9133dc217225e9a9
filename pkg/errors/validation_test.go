package errors

import (
	"strings"
	"testing"
)

func TestValidateCaptionPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple file", "captions/cat.txt", false},
		{"nested file", "set-a/outdoor/dog.caption", false},
		{"absolute path", "/data/captions/cat.txt", false},
		{"empty", "", true},
		{"null byte", "cat\x00.txt", true},
		{"control character", "cat\x01.txt", true},
		{"parent traversal", "../secrets.txt", true},
		{"nested traversal", "a/../../secrets.txt", true},
		{"cleaned-away traversal", "a/../b.txt", false},
		{"too long", strings.Repeat("a", 5000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCaptionPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCaptionPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateOperation(t *testing.T) {
	for _, op := range []string{"dropout", "shuffle", "both"} {
		if err := ValidateOperation(op); err != nil {
			t.Errorf("ValidateOperation(%q) = %v, want nil", op, err)
		}
	}

	for _, op := range []string{"", "scramble", "DROPOUT"} {
		err := ValidateOperation(op)
		if err == nil {
			t.Errorf("ValidateOperation(%q) = nil, want error", op)
			continue
		}
		if !Is(err, ErrCodeInvalidOperation) {
			t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidOperation)
		}
	}
}
