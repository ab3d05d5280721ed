package store

import (
	"context"
	"database/sql"
	"time"

	"funds/internal/models"

	"github.com/shopspring/decimal"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID               string
	UserID           string
	FundID           string
	Type             string
	Amount           decimal.Decimal
	TransactionDate  time.Time
	CancellationDate *time.Time
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, user_id, fund_id, type, amount, transaction_date, cancellation_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.UserID, input.FundID, input.Type, input.Amount,
		input.TransactionDate, input.CancellationDate,
	)
	return err
}

// ListByUser returns the user's transactions most-recent-first, each with
// the fund's current display name. The join is best-effort: a fund that no
// longer exists yields an empty name rather than dropping the row.
func (s *TransactionStore) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.user_id, t.fund_id, COALESCE(f.name, '') AS fund_name,
		       t.type, t.amount, t.transaction_date, t.cancellation_date, t.created_at
		FROM transactions t
		LEFT JOIN funds f ON f.id = t.fund_id
		WHERE t.user_id = $1
		ORDER BY t.transaction_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) ListAll(ctx context.Context) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.user_id, t.fund_id, COALESCE(f.name, '') AS fund_name,
		       t.type, t.amount, t.transaction_date, t.cancellation_date, t.created_at
		FROM transactions t
		LEFT JOIN funds f ON f.id = t.fund_id
		ORDER BY t.transaction_date DESC
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestForPair returns the transaction with the greatest transaction_date
// for a (user, fund) pair, or nil when the pair has no history. Subscription
// state is derived from this single row.
func (s *TransactionStore) LatestForPair(ctx context.Context, q Getter, userID, fundID string) (*models.Transaction, error) {
	var row models.Transaction
	err := q.GetContext(ctx, &row, `
		SELECT id, user_id, fund_id, type, amount, transaction_date, cancellation_date, created_at
		FROM transactions
		WHERE user_id = $1 AND fund_id = $2
		ORDER BY transaction_date DESC
		LIMIT 1
	`, userID, fundID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
