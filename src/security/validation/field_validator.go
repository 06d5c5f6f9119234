package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrValidationFailed is the base error for all field validation failures.
var ErrValidationFailed = errors.New("validation failed")

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

// ValidateStringNotEmpty ensures the field carries a non-blank value.
func ValidateStringNotEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateUsernameFormat ensures a username is 3-32 characters of letters,
// digits, underscore, dot or dash.
func ValidateUsernameFormat(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: username must be 3-32 characters (letters, digits, '_', '.', '-')", ErrValidationFailed)
	}
	return nil
}
