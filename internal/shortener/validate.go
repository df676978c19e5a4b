package shortener

import (
	"regexp"
	"strings"
)

// MaxValidityMinutes is one non-leap year, the upper bound for a
// validity period.
const MaxValidityMinutes = 525600

var (
	// Permissive host + optional path, with an optional http(s) prefix.
	urlPattern       = regexp.MustCompile(`^(?i:https?://)?([A-Za-z0-9-]+\.)+[A-Za-z]{2,}(:\d+)?(/\S*)?$`)
	shortCodePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	protocolPrefix   = regexp.MustCompile(`^(?i)https?://`)
)

// ValidationResult is the outcome of a single pure input check.
type ValidationResult struct {
	IsValid bool
	Message string
}

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(message string) ValidationResult {
	return ValidationResult{IsValid: false, Message: message}
}

// ValidateURL checks the shape of a raw URL string.
func ValidateURL(raw string) ValidationResult {
	if strings.TrimSpace(raw) == "" {
		return invalid("URL is required")
	}

	if !urlPattern.MatchString(strings.TrimSpace(raw)) {
		return invalid("Please enter a valid URL")
	}

	return valid()
}

// ValidatePeriod checks a validity period in minutes.
func ValidatePeriod(minutes int64) ValidationResult {
	if minutes <= 0 {
		return invalid("Validity period must be positive")
	}

	if minutes > MaxValidityMinutes {
		return invalid("Validity period cannot exceed 1 year")
	}

	return valid()
}

// ValidateShortCode checks a preferred shortcode. An empty string is
// valid; the field is optional.
func ValidateShortCode(code string) ValidationResult {
	if code == "" {
		return valid()
	}

	if !shortCodePattern.MatchString(code) {
		return invalid("Shortcode may only contain letters and digits")
	}

	if len(code) < 4 || len(code) > 10 {
		return invalid("Shortcode must be between 4 and 10 characters")
	}

	return valid()
}

// NormalizeURL guarantees a protocol on the original URL, prefixing
// https:// when none is present.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if protocolPrefix.MatchString(raw) {
		return raw
	}

	return "https://" + raw
}
