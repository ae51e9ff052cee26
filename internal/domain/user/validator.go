package user

import (
	"fmt"
	"unicode"
)

const (
	MinLoginLen    = 3
	MaxLoginLen    = 32
	MinPasswordLen = 8
)

type Validator interface {
	ValidateRegister(login, password string) error
	ValidateLogin(login string) error
	ValidatePassword(password string) error
}

// CredentialsValidator enforces a policy suitable for a consumer app:
// letters and digits are required, special characters are welcome but
// not mandatory.
type CredentialsValidator struct {
	requireDigit  bool
	requireLetter bool
}

func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{
		requireDigit:  true,
		requireLetter: true,
	}
}

func (v *CredentialsValidator) ValidateRegister(login, password string) error {
	if err := v.ValidateLogin(login); err != nil {
		return fmt.Errorf("login validation failed: %w", err)
	}

	if err := v.ValidatePassword(password); err != nil {
		return fmt.Errorf("password validation failed: %w", err)
	}

	return nil
}

func (v *CredentialsValidator) ValidateLogin(login string) error {
	if len(login) < MinLoginLen {
		return fmt.Errorf("login must be at least %d characters", MinLoginLen)
	}

	if len(login) > MaxLoginLen {
		return fmt.Errorf("login must be at most %d characters", MaxLoginLen)
	}

	for _, r := range login {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' && r != '.' {
			return fmt.Errorf("login can only contain letters, digits, '_', '-', '.'")
		}
	}

	return nil
}

func (v *CredentialsValidator) ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}

	hasLetter := false
	hasDigit := false

	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}

		if hasLetter && hasDigit {
			break
		}
	}

	if v.requireLetter && !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}

	if v.requireDigit && !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}

	return nil
}
