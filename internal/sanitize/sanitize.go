// Package sanitize masks sensitive data before it reaches logs or error
// messages. WhatsApp user identifiers are phone numbers, so anything that
// logs a user ID goes through here.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`\+?[1-9]\d{6,14}`)

	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|secret|token|password|auth)[=:\s"']*([\w-]{16,})`)

	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[\w.-]+`)
)

// Sanitizer applies a configured set of masking patterns to strings.
type Sanitizer struct {
	patterns []patternConfig
}

type patternConfig struct {
	pattern     *regexp.Regexp
	replacement func(string) string
	enabled     bool
}

// Config holds configuration for the sanitizer.
type Config struct {
	// MaskPhones masks phone numbers.
	MaskPhones bool
	// MaskAPIKeys masks API keys and secrets.
	MaskAPIKeys bool
	// MaskBearerTokens masks bearer tokens.
	MaskBearerTokens bool
}

// DefaultConfig returns a configuration with all masking enabled.
func DefaultConfig() Config {
	return Config{
		MaskPhones:       true,
		MaskAPIKeys:      true,
		MaskBearerTokens: true,
	}
}

// New creates a new Sanitizer with the given configuration.
func New(cfg Config) *Sanitizer {
	return &Sanitizer{
		patterns: []patternConfig{
			{
				pattern:     phonePattern,
				replacement: maskPhone,
				enabled:     cfg.MaskPhones,
			},
			{
				pattern:     apiKeyPattern,
				replacement: maskAPIKey,
				enabled:     cfg.MaskAPIKeys,
			},
			{
				pattern:     bearerPattern,
				replacement: maskBearer,
				enabled:     cfg.MaskBearerTokens,
			},
		},
	}
}

// NewDefault creates a sanitizer with default configuration.
func NewDefault() *Sanitizer {
	return New(DefaultConfig())
}

// String sanitizes a string by masking all sensitive data.
func (s *Sanitizer) String(input string) string {
	result := input
	for _, p := range s.patterns {
		if p.enabled {
			result = p.pattern.ReplaceAllStringFunc(result, p.replacement)
		}
	}
	return result
}

// Error sanitizes an error message.
func (s *Sanitizer) Error(err error) string {
	if err == nil {
		return ""
	}
	return s.String(err.Error())
}

// Headers sanitizes HTTP headers.
func (s *Sanitizer) Headers(headers map[string][]string) map[string][]string {
	result := make(map[string][]string, len(headers))
	for k, vals := range headers {
		if isSensitiveHeader(strings.ToLower(k)) {
			result[k] = []string{"[REDACTED]"}
			continue
		}
		sanitized := make([]string, len(vals))
		for i, v := range vals {
			sanitized[i] = s.String(v)
		}
		result[k] = sanitized
	}
	return result
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	// Keep first 3 and last 2 characters.
	return phone[:3] + strings.Repeat("*", len(phone)-5) + phone[len(phone)-2:]
}

func maskAPIKey(match string) string {
	parts := apiKeyPattern.FindStringSubmatch(match)
	if len(parts) >= 2 {
		prefix := strings.TrimSuffix(match, parts[len(parts)-1])
		return prefix + "[REDACTED]"
	}
	return "[REDACTED-KEY]"
}

func maskBearer(string) string {
	return "Bearer [REDACTED]"
}

func isSensitiveHeader(header string) bool {
	switch header {
	case "authorization", "x-api-key", "x-auth-token",
		"cookie", "set-cookie", "x-hub-signature-256",
		"proxy-authorization", "www-authenticate":
		return true
	}
	return false
}

// Quick masking functions for common use cases.

// Phone masks a phone number, keeping the first 3 and last 2 digits.
func Phone(phone string) string {
	return maskPhone(phone)
}

// APIKey masks an API key keeping short affixes for correlation.
func APIKey(key string) string {
	if len(key) <= 8 {
		return "[REDACTED]"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// PartialMask masks the middle portion of a string, keeping first and last N chars.
func PartialMask(s string, keepStart, keepEnd int) string {
	if len(s) <= keepStart+keepEnd {
		return strings.Repeat("*", len(s))
	}
	return s[:keepStart] + strings.Repeat("*", len(s)-keepStart-keepEnd) + s[len(s)-keepEnd:]
}

// ID partially masks an identifier, showing first 4 and last 4 characters.
func ID(id string) string {
	return PartialMask(id, 4, 4)
}
