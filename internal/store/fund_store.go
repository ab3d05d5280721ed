package store

import (
	"context"

	"funds/internal/models"

	"github.com/shopspring/decimal"
)

type FundStore struct {
	db DB
}

func NewFundStore(db DB) *FundStore {
	return &FundStore{db: db}
}

type FundInput struct {
	ID            string
	Name          string
	MinimumAmount decimal.Decimal
	Category      string
	Description   string
}

const fundColumns = `
	id, name, minimum_amount, category, description, is_active, created_at, updated_at
`

func (s *FundStore) Create(ctx context.Context, tx Execer, input FundInput) error {
	query := `
		INSERT INTO funds (id, name, minimum_amount, category, description)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Name, input.MinimumAmount, input.Category, input.Description,
	)
	return err
}

func (s *FundStore) GetByID(ctx context.Context, fundID string) (models.Fund, error) {
	var row models.Fund
	err := s.db.GetContext(ctx, &row, `SELECT `+fundColumns+` FROM funds WHERE id = $1`, fundID)
	if err != nil {
		return models.Fund{}, err
	}
	return row, nil
}

func (s *FundStore) Update(ctx context.Context, tx Execer, fund models.Fund) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE funds
		SET name = $1, minimum_amount = $2, category = $3, description = $4,
		    is_active = $5, updated_at = NOW()
		WHERE id = $6
	`, fund.Name, fund.MinimumAmount, fund.Category, fund.Description, fund.IsActive, fund.ID)
	return err
}

func (s *FundStore) ListAll(ctx context.Context) ([]models.Fund, error) {
	var rows []models.Fund
	err := s.db.SelectContext(ctx, &rows, `SELECT `+fundColumns+` FROM funds ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
