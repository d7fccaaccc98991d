package errors

import (
	"testing"
)

func TestValidateDocumentName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "transport-task", false},
		{"valid with underscore", "transport_task", false},
		{"valid with dot", "task.v2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path traversal ..", "foo..bar", true},
		{"slash", "reports/task", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"leading dash", "-task", true},
		{"space", "my task", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDocumentName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRunID(t *testing.T) {
	if err := ValidateRunID("3f0c2a8e-1f6b-4f38-9a59-3a9e7c0f6a11"); err != nil {
		t.Errorf("ValidateRunID(valid) error = %v", err)
	}
	for _, id := range []string{"", "not-a-uuid", "1234"} {
		err := ValidateRunID(id)
		if err == nil {
			t.Errorf("ValidateRunID(%q) expected error", id)
			continue
		}
		if !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateRunID(%q) code = %v, want %v", id, GetCode(err), ErrCodeInvalidInput)
		}
	}
}
