package validation

import (
	"strings"
	"unicode"

	"github.com/oksasatya/go-user-api/pkg/apperrors"
)

// Field rules applied to inputs before they reach the repository. Each rule
// is a pure function; schemas compose them in order.

const (
	PasswordMinLen = 8
	PasswordMaxLen = 50
	EmailMaxLen    = 100
)

// NormalizeEmail lowercases an email address. Uniqueness comparisons happen
// on the normalized form only.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePasswordComplexity enforces the password policy: 8-50 characters
// with at least one uppercase letter and one digit. The returned error
// names the rule that was broken.
func ValidatePasswordComplexity(password string) error {
	if len(password) < PasswordMinLen {
		return apperrors.BadRequest("Password must be at least 8 characters long")
	}
	if len(password) > PasswordMaxLen {
		return apperrors.BadRequest("Password must be at most 50 characters long")
	}
	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasDigit {
		return apperrors.BadRequest("Password must contain at least 1 uppercase letter and 1 number")
	}
	return nil
}
