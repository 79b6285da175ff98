package service

import (
	"unicode"

	apperrors "apikit/internal/errors"
)

const minPasswordLength = 8

// ValidatePassword enforces the password policy: minimum length plus at
// least one digit, uppercase, lowercase and special character. The returned
// error names the first rule that failed.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.Validation("password must be at least 8 characters long")
	}

	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasDigit:
		return apperrors.Validation("password must contain at least one digit")
	case !hasUpper:
		return apperrors.Validation("password must contain at least one uppercase letter")
	case !hasLower:
		return apperrors.Validation("password must contain at least one lowercase letter")
	case !hasSpecial:
		return apperrors.Validation("password must contain at least one special character")
	}
	return nil
}
