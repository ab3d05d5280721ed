package store

import (
	"context"

	"funds/internal/models"

	"github.com/shopspring/decimal"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

type UserInput struct {
	ID                     string
	Username               string
	Email                  string
	PasswordHash           string
	FirstName              string
	LastName               string
	PhoneNumber            string
	Balance                decimal.Decimal
	Role                   string
	NotificationPreference string
}

const userColumns = `
	id, username, email, password_hash, first_name, last_name, phone_number,
	balance, role, notification_preference, is_active, created_at, updated_at
`

func (s *UserStore) Create(ctx context.Context, tx Execer, input UserInput) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name,
		                   phone_number, balance, role, notification_preference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Username, input.Email, input.PasswordHash, input.FirstName,
		input.LastName, input.PhoneNumber, input.Balance, input.Role, input.NotificationPreference,
	)
	return err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

// GetForUpdate locks the user row for the duration of the surrounding
// transaction. Subscribe and cancel read balance and subscription state
// under this lock.
func (s *UserStore) GetForUpdate(ctx context.Context, tx Getter, userID string) (models.User, error) {
	var row models.User
	err := tx.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) UpdateBalance(ctx context.Context, tx Execer, userID string, balance decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, userID)
	return err
}

func (s *UserStore) UpdateProfile(ctx context.Context, tx Execer, user models.User) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, phone_number = $3,
		    notification_preference = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
	`, user.FirstName, user.LastName, user.PhoneNumber, user.NotificationPreference, user.IsActive, user.ID)
	return err
}

func (s *UserStore) ListAll(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := s.db.SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
