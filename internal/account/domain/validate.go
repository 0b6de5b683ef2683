package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the syntax of an already normalized email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	return nil
}

// ValidatePassword enforces MinPasswordLength.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	return nil
}

// ValidateRegistration checks name, email and password for a new account.
func ValidateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}

// ValidateCode rejects an empty OTP submission.
func ValidateCode(code string) error {
	if code == "" {
		return fmt.Errorf("%w: otp is required", ErrInvalidInput)
	}
	return nil
}
