package handlers

import (
	"context"

	"funds/internal/models"
	"funds/internal/store"

	"github.com/shopspring/decimal"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, input store.UserInput) error
	GetByID(ctx context.Context, userID string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	UpdateProfile(ctx context.Context, tx store.Execer, user models.User) error
	ListAll(ctx context.Context) ([]models.User, error)
}

type FundStore interface {
	Create(ctx context.Context, tx store.Execer, input store.FundInput) error
	GetByID(ctx context.Context, fundID string) (models.Fund, error)
	Update(ctx context.Context, tx store.Execer, fund models.Fund) error
	ListAll(ctx context.Context) ([]models.Fund, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, userID, fundID string, amount decimal.Decimal) (models.Transaction, error)
	Cancel(ctx context.Context, userID, fundID string) (models.Transaction, error)
	ListForUser(ctx context.Context, userID string) ([]models.Transaction, error)
	ListAll(ctx context.Context) ([]models.Transaction, error)
}
