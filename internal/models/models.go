package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleClient = "client"
	RoleAdmin  = "admin"

	NotifyEmail = "email"
	NotifySMS   = "sms"

	TypeSubscription = "subscription"
	TypeCancellation = "cancellation"

	CategoryFPV = "FPV"
	CategoryFIC = "FIC"
)

type User struct {
	ID                     string          `db:"id" json:"id"`
	Username               string          `db:"username" json:"username"`
	Email                  string          `db:"email" json:"email"`
	PasswordHash           string          `db:"password_hash" json:"-"`
	FirstName              string          `db:"first_name" json:"first_name"`
	LastName               string          `db:"last_name" json:"last_name"`
	PhoneNumber            string          `db:"phone_number" json:"phone_number"`
	Balance                decimal.Decimal `db:"balance" json:"balance"`
	Role                   string          `db:"role" json:"role"`
	NotificationPreference string          `db:"notification_preference" json:"notification_preference"`
	IsActive               bool            `db:"is_active" json:"is_active"`
	CreatedAt              time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time       `db:"updated_at" json:"updated_at"`
}

type Fund struct {
	ID            string          `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	MinimumAmount decimal.Decimal `db:"minimum_amount" json:"minimum_amount"`
	Category      string          `db:"category" json:"category"`
	Description   string          `db:"description" json:"description"`
	IsActive      bool            `db:"is_active" json:"is_active"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Transaction rows are append-only: the store exposes no update or delete.
type Transaction struct {
	ID               string          `db:"id" json:"id"`
	UserID           string          `db:"user_id" json:"user_id"`
	FundID           string          `db:"fund_id" json:"fund_id"`
	FundName         string          `db:"fund_name" json:"fund_name,omitempty"`
	Type             string          `db:"type" json:"type"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	TransactionDate  time.Time       `db:"transaction_date" json:"transaction_date"`
	CancellationDate *time.Time      `db:"cancellation_date" json:"cancellation_date,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}
