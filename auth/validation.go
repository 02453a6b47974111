package auth

import (
	"regexp"
	"strings"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// emailRegex accepts the usual local@domain.tld shape. Deliverability is
// proven by the verification email, not by the pattern.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether the address is syntactically plausible.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// validateLogin checks the shape of login input. Returns nil when valid.
func validateLogin(email, password string) *ValidationError {
	verr := NewValidationError()
	if !ValidEmail(email) {
		verr.Add("email", "must be a valid email address")
	}
	if password == "" {
		verr.Add("password", "must not be empty")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// validateNewPassword checks the password rules shared by signup and
// password reset. Confirmation equality is byte-for-byte.
func validateNewPassword(password, confirmation string) *ValidationError {
	verr := NewValidationError()
	if len(password) < MinPasswordLength {
		verr.Add("password", "must be at least 8 characters long")
	}
	if password != confirmation {
		verr.Add("password_confirmation", "passwords do not match")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// validateSignup checks the shape of signup input. Returns nil when valid.
func validateSignup(email, password, confirmation string) *ValidationError {
	verr := NewValidationError()
	if !ValidEmail(email) {
		verr.Add("email", "must be a valid email address")
	}
	if pwErr := validateNewPassword(password, confirmation); pwErr != nil {
		for field, message := range pwErr.Fields {
			verr.Add(field, message)
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}
