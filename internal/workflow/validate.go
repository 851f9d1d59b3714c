package workflow

import (
	"regexp"
	"strings"

	"dry-cleaner/internal/model"
)

var (
	// Local mobile numbers: 07, then 2-9, then seven digits.
	phonePattern = regexp.MustCompile(`^07[2-9]\d{7}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidatePhone checks a client phone number.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return model.NewValidationError("Invalid phone format (e.g., 078XXXXXXX)")
	}
	return nil
}

// ValidateEmail performs a basic syntactic check on an email address.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return model.NewValidationError("Invalid email format")
	}
	return nil
}

// normaliseEmail returns nil for an absent or blank email.
func normaliseEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
