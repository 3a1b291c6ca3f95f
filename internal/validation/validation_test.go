package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"non-empty", "hello", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			got := v.Required("field", tt.value)
			if got != tt.valid {
				t.Errorf("Required(%q) = %v, expected %v", tt.value, got, tt.valid)
			}
			if v.IsValid() != tt.valid {
				t.Errorf("IsValid() = %v, expected %v", v.IsValid(), tt.valid)
			}
		})
	}
}

func TestValidator_MaxLength(t *testing.T) {
	v := New()
	if !v.MaxLength("field", "short", 10) {
		t.Error("MaxLength rejected a short string")
	}
	if v.MaxLength("field", strings.Repeat("x", 11), 10) {
		t.Error("MaxLength accepted an overlong string")
	}

	// Rune count, not byte count
	v = New()
	if !v.MaxLength("field", strings.Repeat("₹", 10), 10) {
		t.Error("MaxLength counted bytes instead of runes")
	}
}

func TestValidator_PhoneNumber(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"919876543210", true},
		{"+919876543210", true},
		{"+1 (555) 123-4567", true},
		{"", true}, // empty is valid, use Required separately
		{"0123456", false},
		{"not-a-phone", false},
		{"+", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			v := New()
			if got := v.PhoneNumber("phone", tt.phone); got != tt.valid {
				t.Errorf("PhoneNumber(%q) = %v, expected %v", tt.phone, got, tt.valid)
			}
		})
	}
}

func TestValidator_SafeString(t *testing.T) {
	v := New()
	if !v.SafeString("field", "hello\nworld\ttab") {
		t.Error("SafeString rejected newlines and tabs")
	}
	if v.SafeString("field", "null\x00byte") {
		t.Error("SafeString accepted a null byte")
	}
	if v.SafeString("field", "escape\x1b[31m") {
		t.Error("SafeString accepted an escape sequence")
	}
}

func TestValidationErrors_FieldErrors(t *testing.T) {
	v := New()
	v.Required("a", "")
	v.Required("b", "")
	v.MaxLength("a", strings.Repeat("x", 5), 3)

	errs := v.Errors()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(errs))
	}
	if got := errs.FieldErrors("a"); len(got) != 2 {
		t.Errorf("FieldErrors(a) returned %d errors, expected 2", len(got))
	}
	if !strings.Contains(errs.Error(), "a: is required") {
		t.Errorf("Error() = %q, missing field context", errs.Error())
	}
}

func TestMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		sender  string
		text    string
		wantErr bool
	}{
		{"valid", "919876543210", "I want ceramic coating", false},
		{"empty sender", "", "hi", true},
		{"bad sender", "garbage!", "hi", true},
		{"empty text", "919876543210", "", true},
		{"oversize text", "919876543210", strings.Repeat("a", 5000), true},
		{"control chars", "919876543210", "hi\x00there", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Message(tt.sender, tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("Message() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMessage_ErrorsAreValidationErrors(t *testing.T) {
	err := Message("", "")
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Message() error type = %T, expected ValidationErrors", err)
	}
	if !verrs.HasErrors() {
		t.Error("expected accumulated errors")
	}
}

func TestTestMessage(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		text    string
		wantErr bool
	}{
		{"valid", "test-user", "hello", false},
		{"free-form user id", "console-user", "hi", false},
		{"empty user", "", "hi", true},
		{"overlong user", strings.Repeat("u", 100), "hi", true},
		{"empty text", "test-user", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TestMessage(tt.userID, tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("TestMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "hello world", "hello world"},
		{"null bytes removed", "a\x00b", "ab"},
		{"control chars to spaces", "a\x01b", "a b"},
		{"newlines kept", "a\nb", "a\nb"},
		{"trimmed", "  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeString(tt.input); got != tt.want {
				t.Errorf("SanitizeString(%q) = %q, expected %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePhoneNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+1 (555) 123-4567", "+15551234567"},
		{"919876543210", "919876543210"},
		{"+", ""},
		{"abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizePhoneNumber(tt.input); got != tt.want {
				t.Errorf("SanitizePhoneNumber(%q) = %q, expected %q", tt.input, got, tt.want)
			}
		})
	}
}
