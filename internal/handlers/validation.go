package handlers

import (
	"strconv"

	"funds/internal/money"
	"funds/internal/validator"

	"github.com/shopspring/decimal"
)

func validateRegistration(req registerRequest) error {
	if err := validator.ValidateUsername(req.Username); err != nil {
		return err
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		return err
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		return err
	}
	if err := validator.ValidateName(req.FirstName); err != nil {
		return err
	}
	if err := validator.ValidateName(req.LastName); err != nil {
		return err
	}
	if err := validator.ValidatePhone(req.PhoneNumber); err != nil {
		return err
	}
	if req.NotificationPreference != "" {
		if err := validator.ValidatePreference(req.NotificationPreference); err != nil {
			return err
		}
	}
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	return money.ParseAmount(raw)
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
