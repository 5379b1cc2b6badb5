package service

import (
	"strings"
	"unicode"
)

// MinPasswordLength applies to every password-accepting flow.
const MinPasswordLength = 8

const specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// ValidatePassword applies the registration strength rule: minimum
// length plus at least one upper-case letter, one lower-case letter and
// one digit. Returns a list of human-readable problems, empty when the
// password passes.
func ValidatePassword(password string) []string {
	var problems []string

	if len(password) < MinPasswordLength {
		problems = append(problems, "password must be at least 8 characters long")
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		problems = append(problems, "password must contain at least one uppercase letter")
	}
	if !strings.ContainsFunc(password, unicode.IsLower) {
		problems = append(problems, "password must contain at least one lowercase letter")
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		problems = append(problems, "password must contain at least one digit")
	}

	return problems
}

// ValidatePasswordStrict is the standalone checker variant: the
// registration rule plus a special-character requirement. The two rules
// intentionally differ; callers pick the one they want.
func ValidatePasswordStrict(password string) []string {
	problems := ValidatePassword(password)

	if !strings.ContainsAny(password, specialChars) {
		problems = append(problems, "password must contain at least one special character")
	}

	return problems
}
