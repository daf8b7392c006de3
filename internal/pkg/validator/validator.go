package validator

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
)

// ValidateEmail checks basic address shape. MX resolution is deliberately
// skipped: internal accounts are provisioned against the company domain and
// the service must stay usable without outbound DNS.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email format")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 || !strings.Contains(parts[1], ".") {
		return errors.New("invalid email domain")
	}

	return nil
}

// ValidatePassword enforces the account password policy: at least 8
// characters with an uppercase letter, a lowercase letter, and a digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	if !hasUpper {
		return errors.New("password must contain an uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain a lowercase letter")
	}
	if !hasDigit {
		return errors.New("password must contain a digit")
	}

	return nil
}
