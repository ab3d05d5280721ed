package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"funds/internal/db"
	"funds/internal/models"
	"funds/internal/money"
	"funds/internal/store"
	"funds/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (models.User, error)
	UpdateBalance(ctx context.Context, tx store.Execer, userID string, balance decimal.Decimal) error
}

type FundStore interface {
	GetByID(ctx context.Context, fundID string) (models.Fund, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	ListByUser(ctx context.Context, userID string) ([]models.Transaction, error)
	ListAll(ctx context.Context) ([]models.Transaction, error)
	LatestForPair(ctx context.Context, q store.Getter, userID, fundID string) (*models.Transaction, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type Notifier interface {
	NotifySubscription(ctx context.Context, user models.User, fund models.Fund, tx models.Transaction) error
	NotifyCancellation(ctx context.Context, user models.User, fund models.Fund, tx models.Transaction) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

// SubscriptionService validates and executes subscribe and cancel requests
// against the user's balance and the fund's state. Each mutation runs in a
// serializable transaction with the user row locked, so the balance check,
// the derived subscription state, and the debit or credit commit as one
// unit; concurrent calls for the same user serialize on the row lock.
type SubscriptionService struct {
	txRunner     db.TxRunner
	users        UserStore
	funds        FundStore
	transactions TransactionStore
	audit        AuditStore
	notifier     Notifier
	hub          BalanceHub
	now          func() time.Time
}

func NewSubscriptionService(txRunner db.TxRunner, users UserStore, funds FundStore, transactions TransactionStore, audit AuditStore, notifier Notifier, hub BalanceHub) *SubscriptionService {
	return &SubscriptionService{
		txRunner:     txRunner,
		users:        users,
		funds:        funds,
		transactions: transactions,
		audit:        audit,
		notifier:     notifier,
		hub:          hub,
		now:          time.Now,
	}
}

// Subscribe debits the amount from the user's balance and appends a
// Subscription transaction. Preconditions are checked in a fixed order and
// the first failure wins, with no partial side effects.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, fundID string, amount decimal.Decimal) (models.Transaction, error) {
	log.Printf("subscribe attempt user=%s fund=%s amount=%s", userID, fundID, money.Format(amount))

	var created models.Transaction
	var user models.User
	var fund models.Fund
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		user, err = s.users.GetForUpdate(ctx, tx, userID)
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		if !user.IsActive {
			return ErrUserNotActive
		}
		fund, err = s.funds.GetByID(ctx, fundID)
		if err == sql.ErrNoRows {
			return ErrFundNotFound
		}
		if err != nil {
			return err
		}
		if !fund.IsActive {
			return ErrFundNotActive
		}
		if amount.LessThan(fund.MinimumAmount) {
			return ErrInsufficientAmount
		}
		if user.Balance.LessThan(amount) {
			return insufficientBalance(user.Balance, amount, fund.Name)
		}
		latest, err := s.transactions.LatestForPair(ctx, tx, userID, fundID)
		if err != nil {
			return err
		}
		if DeriveState(latest).Subscribed {
			return ErrAlreadySubscribed
		}

		user.Balance = user.Balance.Sub(amount)
		if err := s.users.UpdateBalance(ctx, tx, userID, user.Balance); err != nil {
			return err
		}
		created = models.Transaction{
			ID:              uuid.NewString(),
			UserID:          userID,
			FundID:          fundID,
			FundName:        fund.Name,
			Type:            models.TypeSubscription,
			Amount:          amount,
			TransactionDate: s.now().UTC(),
		}
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:              created.ID,
			UserID:          created.UserID,
			FundID:          created.FundID,
			Type:            created.Type,
			Amount:          created.Amount,
			TransactionDate: created.TransactionDate,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"fund_id": fundID,
			"amount":  money.Format(amount),
		})
		return s.audit.Log(ctx, tx, userID, "subscribe", "transaction", created.ID, string(data))
	})
	if err != nil {
		return models.Transaction{}, s.classify("subscribe", err)
	}

	log.Printf("subscribe success tx=%s user=%s fund=%s amount=%s balance=%s",
		created.ID, userID, fundID, money.Format(created.Amount), money.Format(user.Balance))
	s.notifyAsync("subscription", created.ID, func(ctx context.Context) error {
		return s.notifier.NotifySubscription(ctx, user, fund, created)
	})
	s.hub.BroadcastBalance(userID, websocket.BalanceUpdate{
		Balance:       money.Format(user.Balance),
		TransactionID: created.ID,
		Type:          created.Type,
	})
	return created, nil
}

// Cancel credits the subscribed amount back and appends a Cancellation
// transaction. The original subscription row is never referenced or
// mutated; the cancellation is an independent ledger entry of equal amount.
func (s *SubscriptionService) Cancel(ctx context.Context, userID, fundID string) (models.Transaction, error) {
	log.Printf("cancel attempt user=%s fund=%s", userID, fundID)

	var created models.Transaction
	var user models.User
	var fund models.Fund
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		user, err = s.users.GetForUpdate(ctx, tx, userID)
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		fund, err = s.funds.GetByID(ctx, fundID)
		if err == sql.ErrNoRows {
			return ErrFundNotFound
		}
		if err != nil {
			return err
		}
		latest, err := s.transactions.LatestForPair(ctx, tx, userID, fundID)
		if err != nil {
			return err
		}
		state := DeriveState(latest)
		if !state.Subscribed {
			return ErrNotSubscribed
		}

		user.Balance = user.Balance.Add(state.Amount)
		if err := s.users.UpdateBalance(ctx, tx, userID, user.Balance); err != nil {
			return err
		}
		now := s.now().UTC()
		created = models.Transaction{
			ID:               uuid.NewString(),
			UserID:           userID,
			FundID:           fundID,
			FundName:         fund.Name,
			Type:             models.TypeCancellation,
			Amount:           state.Amount,
			TransactionDate:  now,
			CancellationDate: &now,
		}
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:               created.ID,
			UserID:           created.UserID,
			FundID:           created.FundID,
			Type:             created.Type,
			Amount:           created.Amount,
			TransactionDate:  created.TransactionDate,
			CancellationDate: created.CancellationDate,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"fund_id": fundID,
			"amount":  money.Format(state.Amount),
		})
		return s.audit.Log(ctx, tx, userID, "cancel", "transaction", created.ID, string(data))
	})
	if err != nil {
		return models.Transaction{}, s.classify("cancel", err)
	}

	log.Printf("cancel success tx=%s user=%s fund=%s amount=%s balance=%s",
		created.ID, userID, fundID, money.Format(created.Amount), money.Format(user.Balance))
	s.notifyAsync("cancellation", created.ID, func(ctx context.Context) error {
		return s.notifier.NotifyCancellation(ctx, user, fund, created)
	})
	s.hub.BroadcastBalance(userID, websocket.BalanceUpdate{
		Balance:       money.Format(user.Balance),
		TransactionID: created.ID,
		Type:          created.Type,
	})
	return created, nil
}

// ListForUser returns the user's transactions most-recent-first, each
// carrying the fund's current display name when the fund still exists.
func (s *SubscriptionService) ListForUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, s.classify("list", err)
	}
	transactions, err := s.transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.classify("list", err)
	}
	return transactions, nil
}

func (s *SubscriptionService) ListAll(ctx context.Context) ([]models.Transaction, error) {
	transactions, err := s.transactions.ListAll(ctx)
	if err != nil {
		return nil, s.classify("list_all", err)
	}
	return transactions, nil
}

// notifyAsync delivers a notification on a detached goroutine with its own
// error boundary. A failure is logged and discarded; it never delays or
// fails the call that triggered it, and the request context is not shared.
func (s *SubscriptionService) notifyAsync(kind, transactionID string, send func(ctx context.Context) error) {
	go func() {
		if err := send(context.Background()); err != nil {
			log.Printf("%s notification failed tx=%s: %v", kind, transactionID, err)
			return
		}
		log.Printf("%s notification sent tx=%s", kind, transactionID)
	}()
}

// classify passes engine errors through and hides everything else behind a
// generic internal error, keeping store detail in the server log only.
func (s *SubscriptionService) classify(op string, err error) error {
	if engineErr, ok := err.(*Error); ok {
		log.Printf("%s rejected: %s", op, engineErr.Reason)
		return engineErr
	}
	log.Printf("%s failed: %v", op, err)
	return errInternal
}
