package services

import (
	"funds/internal/models"

	"github.com/shopspring/decimal"
)

// SubscriptionState is the derived state of a (user, fund) pair. It is
// never stored: the transaction history is the single source of truth.
type SubscriptionState struct {
	Subscribed bool
	Amount     decimal.Decimal
}

// DeriveState computes the pair's state from its most recent transaction.
// A latest Subscription means subscribed with that transaction's amount;
// a latest Cancellation, or no history at all, means not subscribed.
func DeriveState(latest *models.Transaction) SubscriptionState {
	if latest == nil || latest.Type != models.TypeSubscription {
		return SubscriptionState{}
	}
	return SubscriptionState{Subscribed: true, Amount: latest.Amount}
}
