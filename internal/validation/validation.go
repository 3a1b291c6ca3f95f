// Package validation provides input validation for webhook payloads and API requests.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationError represents a validation failure with field context.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// FieldErrors returns errors for a specific field.
func (e ValidationErrors) FieldErrors(field string) ValidationErrors {
	var result ValidationErrors
	for _, err := range e {
		if err.Field == field {
			result = append(result, err)
		}
	}
	return result
}

// Error codes for validation failures.
const (
	CodeRequired      = "required"
	CodeInvalidFormat = "invalid_format"
	CodeTooLong       = "too_long"
	CodeTooShort      = "too_short"
	CodeMalicious     = "malicious_content"
)

// Validator provides validation methods for inbound payloads.
type Validator struct {
	errors ValidationErrors
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{}
}

// Errors returns all accumulated validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

// IsValid returns true if no validation errors occurred.
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// AddError adds a validation error.
func (v *Validator) AddError(field, message, code string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
		Code:    code,
	})
}

// Required validates that a string field is not empty.
func (v *Validator) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required", CodeRequired)
		return false
	}
	return true
}

// MaxLength validates string length doesn't exceed maximum.
func (v *Validator) MaxLength(field, value string, maxLen int) bool {
	if utf8.RuneCountInString(value) > maxLen {
		v.AddError(field, fmt.Sprintf("must be at most %d characters", maxLen), CodeTooLong)
		return false
	}
	return true
}

// MinLength validates string length meets minimum.
func (v *Validator) MinLength(field, value string, minLen int) bool {
	if utf8.RuneCountInString(value) < minLen {
		v.AddError(field, fmt.Sprintf("must be at least %d characters", minLen), CodeTooShort)
		return false
	}
	return true
}

// phoneRegex matches international phone numbers.
var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// PhoneNumber validates a phone number format.
func (v *Validator) PhoneNumber(field, value string) bool {
	if value == "" {
		return true // Use Required() separately if needed
	}
	// Remove common formatting characters
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(value)
	if !phoneRegex.MatchString(cleaned) {
		v.AddError(field, "must be a valid phone number in E.164 format", CodeInvalidFormat)
		return false
	}
	return true
}

// SafeString validates a string is safe for display (no control characters except newlines).
func (v *Validator) SafeString(field, value string) bool {
	for _, r := range value {
		// Allow printable characters, newlines, tabs
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			v.AddError(field, "contains invalid control characters", CodeMalicious)
			return false
		}
	}
	return true
}

// Limits for inbound conversation messages. maxMessageLength matches the
// WhatsApp text body cap.
const (
	maxMessageLength = 4096
	maxUserIDLength  = 64
)

// MessageValidator validates one inbound conversation message.
type MessageValidator struct {
	*Validator
}

// NewMessageValidator creates a validator for inbound messages.
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{Validator: New()}
}

// ValidateSender checks the sender identifier (a phone number for
// WhatsApp traffic).
func (v *MessageValidator) ValidateSender(sender string) {
	if v.Required("sender", sender) {
		v.MaxLength("sender", sender, maxUserIDLength)
		v.PhoneNumber("sender", sender)
	}
}

// ValidateUserID checks a free-form user identifier (test endpoints).
func (v *MessageValidator) ValidateUserID(userID string) {
	if v.Required("userId", userID) {
		v.MaxLength("userId", userID, maxUserIDLength)
		v.SafeString("userId", userID)
	}
}

// ValidateText checks the message body.
func (v *MessageValidator) ValidateText(text string) {
	if v.Required("message", text) {
		v.MaxLength("message", text, maxMessageLength)
		v.SafeString("message", text)
	}
}

// Message validates an inbound webhook message in one call.
func Message(sender, text string) error {
	v := NewMessageValidator()
	v.ValidateSender(sender)
	v.ValidateText(text)
	if v.IsValid() {
		return nil
	}
	return v.Errors()
}

// TestMessage validates a test-message request in one call.
func TestMessage(userID, text string) error {
	v := NewMessageValidator()
	v.ValidateUserID(userID)
	v.ValidateText(text)
	if v.IsValid() {
		return nil
	}
	return v.Errors()
}

// SanitizeString strips null bytes and control characters for safe storage.
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Replace control characters (except newlines/tabs) with spaces
	var builder strings.Builder
	for _, r := range s {
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			builder.WriteRune(' ')
		} else {
			builder.WriteRune(r)
		}
	}
	return strings.TrimSpace(builder.String())
}

// SanitizePhoneNumber normalizes a phone number to E.164-ish format.
func SanitizePhoneNumber(phone string) string {
	// Remove all non-digit characters except leading +
	hasPlus := strings.HasPrefix(phone, "+")
	digits := strings.Builder{}
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	result := digits.String()
	if hasPlus && result != "" {
		return "+" + result
	}
	return result
}
