package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindBusiness
	KindInternal
)

// Error is the engine's tagged error type. Callers branch on Kind (and the
// stable Reason code) instead of on concrete error types.
type Error struct {
	Kind    ErrorKind
	Reason  string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrUserNotFound       = &Error{Kind: KindNotFound, Reason: "user_not_found", Message: "user not found"}
	ErrFundNotFound       = &Error{Kind: KindNotFound, Reason: "fund_not_found", Message: "fund not found"}
	ErrUserNotActive      = &Error{Kind: KindBusiness, Reason: "user_not_active", Message: "user is not active"}
	ErrFundNotActive      = &Error{Kind: KindBusiness, Reason: "fund_not_active", Message: "fund is not active"}
	ErrInsufficientAmount = &Error{Kind: KindBusiness, Reason: "insufficient_amount", Message: "amount is below the fund minimum"}
	ErrAlreadySubscribed  = &Error{Kind: KindBusiness, Reason: "already_subscribed", Message: "already subscribed to this fund"}
	ErrNotSubscribed      = &Error{Kind: KindBusiness, Reason: "not_subscribed", Message: "not subscribed to this fund"}
)

const ReasonInsufficientBalance = "insufficient_balance"

func insufficientBalance(balance, amount decimal.Decimal, fundName string) *Error {
	return &Error{
		Kind:   KindBusiness,
		Reason: ReasonInsufficientBalance,
		Message: fmt.Sprintf("insufficient balance: current %s, requested %s, fund %s",
			balance.StringFixed(2), amount.StringFixed(2), fundName),
	}
}

var errInternal = &Error{Kind: KindInternal, Reason: "internal_error", Message: "internal error"}

// KindOf classifies any error returned by the engine. Unrecognized errors
// count as internal.
func KindOf(err error) ErrorKind {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Kind
	}
	return KindInternal
}

func ReasonOf(err error) string {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Reason
	}
	return "internal_error"
}
