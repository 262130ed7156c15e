package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) and contains no
// control characters.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "URL contains invalid control characters")
		}
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateChoice checks that value is one of allowed.
// The field name is used in the error message.
func ValidateChoice(field, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(ErrCodeInvalidInput, "invalid %s %q: must be one of %s", field, value, strings.Join(allowed, ", "))
}
