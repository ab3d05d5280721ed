package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"funds/internal/auth"
	"funds/internal/config"
	"funds/internal/db"
	"funds/internal/middleware"
	"funds/internal/models"
	"funds/internal/store"
	"funds/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn        func(ctx context.Context, tx store.Execer, input store.UserInput) error
	getByIDFn       func(ctx context.Context, userID string) (models.User, error)
	getByEmailFn    func(ctx context.Context, email string) (models.User, error)
	updateProfileFn func(ctx context.Context, tx store.Execer, user models.User) error
	listAllFn       func(ctx context.Context) ([]models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, input store.UserInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) UpdateProfile(ctx context.Context, tx store.Execer, user models.User) error {
	if s.updateProfileFn == nil {
		return nil
	}
	return s.updateProfileFn(ctx, tx, user)
}

func (s stubUserStore) ListAll(ctx context.Context) ([]models.User, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx)
}

type stubFundStore struct {
	createFn  func(ctx context.Context, tx store.Execer, input store.FundInput) error
	getByIDFn func(ctx context.Context, fundID string) (models.Fund, error)
	updateFn  func(ctx context.Context, tx store.Execer, fund models.Fund) error
	listAllFn func(ctx context.Context) ([]models.Fund, error)
}

func (s stubFundStore) Create(ctx context.Context, tx store.Execer, input store.FundInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubFundStore) GetByID(ctx context.Context, fundID string) (models.Fund, error) {
	if s.getByIDFn == nil {
		return models.Fund{}, nil
	}
	return s.getByIDFn(ctx, fundID)
}

func (s stubFundStore) Update(ctx context.Context, tx store.Execer, fund models.Fund) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, fund)
}

func (s stubFundStore) ListAll(ctx context.Context) ([]models.Fund, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubService struct {
	subscribeFn   func(ctx context.Context, userID, fundID string, amount decimal.Decimal) (models.Transaction, error)
	cancelFn      func(ctx context.Context, userID, fundID string) (models.Transaction, error)
	listForUserFn func(ctx context.Context, userID string) ([]models.Transaction, error)
	listAllFn     func(ctx context.Context) ([]models.Transaction, error)
}

func (s stubService) Subscribe(ctx context.Context, userID, fundID string, amount decimal.Decimal) (models.Transaction, error) {
	if s.subscribeFn == nil {
		return models.Transaction{}, nil
	}
	return s.subscribeFn(ctx, userID, fundID, amount)
}

func (s stubService) Cancel(ctx context.Context, userID, fundID string) (models.Transaction, error) {
	if s.cancelFn == nil {
		return models.Transaction{}, nil
	}
	return s.cancelFn(ctx, userID, fundID)
}

func (s stubService) ListForUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	if s.listForUserFn == nil {
		return nil, nil
	}
	return s.listForUserFn(ctx, userID)
}

func (s stubService) ListAll(ctx context.Context) ([]models.Transaction, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx)
}

func newTestHandler(txRunner db.TxRunner, users UserStore, funds FundStore, audit AuditStore, service SubscriptionService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		DatabaseURL:    "",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
	}
	return New(txRunner, cfg, users, funds, audit, service, websocket.NewHub())
}

func authToken(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, role, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func authWrap(handler http.HandlerFunc) http.Handler {
	return middleware.Auth("secret")(handler)
}
