package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrInvalidPreference = errors.New("invalid notification preference")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidFundName   = errors.New("invalid fund name")
	ErrInvalidCategory   = errors.New("invalid fund category")
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	phoneRegex    = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

// ValidatePhone accepts E.164 numbers. Empty is allowed; the phone is
// only required when the user prefers SMS notifications.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func ValidatePreference(preference string) error {
	if preference != "email" && preference != "sms" {
		return ErrInvalidPreference
	}
	return nil
}

// ValidateName allows empty: first and last name are optional profile
// fields.
func ValidateName(name string) error {
	if len(name) > 50 {
		return ErrInvalidName
	}
	return nil
}

func ValidateFundName(name string) error {
	if name == "" || len(name) > 100 {
		return ErrInvalidFundName
	}
	return nil
}

func ValidateCategory(category string) error {
	if category != "FPV" && category != "FIC" {
		return ErrInvalidCategory
	}
	return nil
}
