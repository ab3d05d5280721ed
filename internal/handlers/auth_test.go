package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"funds/internal/auth"
	"funds/internal/models"
	"funds/internal/store"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func TestRegisterSuccess(t *testing.T) {
	var created store.UserInput
	var audited string
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		createFn: func(_ context.Context, _ store.Execer, input store.UserInput) error {
			created = input
			return nil
		},
	}, stubFundStore{}, stubAuditStore{
		logFn: func(_ context.Context, _ store.Execer, _, action, _, _, _ string) error {
			audited = action
			return nil
		},
	}, stubService{})

	body := []byte(`{"username":"alice","email":"alice@example.com","password":"pass1234","first_name":"Alice","last_name":"Smith","phone_number":"+573001234567","notification_preference":"sms"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["token"] == "" {
		t.Fatalf("expected token")
	}
	if !created.Balance.Equal(decimal.NewFromInt(500000)) {
		t.Fatalf("expected opening balance 500000, got %s", created.Balance)
	}
	if created.Role != models.RoleClient {
		t.Fatalf("new users must be clients, got %q", created.Role)
	}
	if created.NotificationPreference != models.NotifySMS {
		t.Fatalf("unexpected preference %q", created.NotificationPreference)
	}
	if audited != "register" {
		t.Fatalf("expected register audit entry, got %q", audited)
	}
}

func TestRegisterDefaultsPreference(t *testing.T) {
	var created store.UserInput
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		createFn: func(_ context.Context, _ store.Execer, input store.UserInput) error {
			created = input
			return nil
		},
	}, stubFundStore{}, stubAuditStore{}, stubService{})

	body := []byte(`{"username":"alice","email":"alice@example.com","password":"pass1234"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if created.NotificationPreference != models.NotifyEmail {
		t.Fatalf("preference must default to email, got %q", created.NotificationPreference)
	}
}

func TestRegisterInvalidUsername(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		createFn: func(context.Context, store.Execer, store.UserInput) error {
			t.Fatalf("create should not be called")
			return nil
		},
	}, stubFundStore{}, stubAuditStore{}, stubService{})

	body := []byte(`{"username":"a","email":"alice@example.com","password":"pass1234"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		createFn: func(context.Context, store.Execer, store.UserInput) error {
			return &pq.Error{Code: "23505"}
		},
	}, stubFundStore{}, stubAuditStore{}, stubService{})

	body := []byte(`{"username":"alice","email":"alice@example.com","password":"pass1234"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	hash, err := auth.HashPassword("pass1234")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{
				ID:           "user-1",
				Email:        email,
				PasswordHash: hash,
				Role:         models.RoleClient,
				IsActive:     true,
			}, nil
		},
	}, stubFundStore{}, stubAuditStore{}, stubService{})

	body := []byte(`{"email":"alice@example.com","password":"pass1234"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	claims, err := auth.ParseToken("secret", payload["token"])
	if err != nil {
		t.Fatalf("token must parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != models.RoleClient {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("pass1234")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByEmailFn: func(_ context.Context, email string) (models.User, error) {
			return models.User{ID: "user-1", PasswordHash: hash, IsActive: true}, nil
		},
	}, stubFundStore{}, stubAuditStore{}, stubService{})

	body := []byte(`{"email":"alice@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByEmailFn: func(context.Context, string) (models.User, error) {
			return models.User{}, sql.ErrNoRows
		},
	}, stubFundStore{}, stubAuditStore{}, stubService{})

	body := []byte(`{"email":"nobody@example.com","password":"pass1234"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	hash, err := auth.HashPassword("pass1234")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByEmailFn: func(context.Context, string) (models.User, error) {
			return models.User{ID: "user-1", PasswordHash: hash, IsActive: false}, nil
		},
	}, stubFundStore{}, stubAuditStore{}, stubService{})

	body := []byte(`{"email":"alice@example.com","password":"pass1234"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}
