package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"funds/internal/models"
	"funds/internal/services"
	"funds/internal/store"

	"github.com/shopspring/decimal"
)

func TestAdminListUsers(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		listAllFn: func(context.Context) ([]models.User, error) {
			return []models.User{
				{ID: "user-1", Username: "alice", Balance: decimal.NewFromInt(500000), Role: models.RoleClient, IsActive: true},
				{ID: "admin-1", Username: "root", Balance: decimal.NewFromInt(500000), Role: models.RoleAdmin, IsActive: true},
			}, nil
		},
	}, stubFundStore{}, stubAuditStore{}, stubService{})

	rr := getWithAuth(t, handler.AdminListUsers, "admin-1", models.RoleAdmin)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 2 {
		t.Fatalf("expected 2 users, got %d", len(payload))
	}
	if payload[0]["balance"] != "500000.00" {
		t.Fatalf("unexpected balance %v", payload[0]["balance"])
	}
	if _, ok := payload[0]["password_hash"]; ok {
		t.Fatalf("password hash must never be exposed")
	}
}

func TestAdminGetUserNotFound(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByIDFn: func(context.Context, string) (models.User, error) {
			return models.User{}, sql.ErrNoRows
		},
	}, stubFundStore{}, stubAuditStore{}, stubService{})

	rr := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/admin/users/missing", nil), "id", "missing")
	handler.AdminGetUser(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestAdminUpdateUserPartial(t *testing.T) {
	var updated models.User
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByIDFn: func(context.Context, string) (models.User, error) {
			return models.User{
				ID:                     "user-1",
				Username:               "alice",
				FirstName:              "Alice",
				LastName:               "Smith",
				Balance:                decimal.NewFromInt(500000),
				Role:                   models.RoleClient,
				NotificationPreference: models.NotifyEmail,
				IsActive:               true,
			}, nil
		},
		updateProfileFn: func(_ context.Context, _ store.Execer, user models.User) error {
			updated = user
			return nil
		},
	}, stubFundStore{}, stubAuditStore{}, stubService{})

	token := authToken(t, "admin-1", models.RoleAdmin)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/users/user-1", bytes.NewReader([]byte(`{"notification_preference":"sms","phone_number":"+573001234567"}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	req = withURLParam(req, "id", "user-1")
	authWrap(handler.AdminUpdateUser).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if updated.NotificationPreference != models.NotifySMS {
		t.Fatalf("unexpected preference %q", updated.NotificationPreference)
	}
	if updated.PhoneNumber != "+573001234567" {
		t.Fatalf("unexpected phone %q", updated.PhoneNumber)
	}
	if updated.FirstName != "Alice" {
		t.Fatalf("absent fields must keep stored values, got %q", updated.FirstName)
	}
	if !updated.Balance.Equal(decimal.NewFromInt(500000)) {
		t.Fatalf("balance must not change through profile updates")
	}
}

func TestAdminListUserTransactionsNotFound(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubFundStore{}, stubAuditStore{}, stubService{
		listForUserFn: func(_ context.Context, userID string) ([]models.Transaction, error) {
			return nil, services.ErrUserNotFound
		},
	})

	token := authToken(t, "admin-1", models.RoleAdmin)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/transactions/user/missing", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req = withURLParam(req, "userID", "missing")
	authWrap(handler.AdminListUserTransactions).ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestListAuditLogsPagination(t *testing.T) {
	var gotLimit, gotOffset int
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubFundStore{}, stubAuditStore{
		listFn: func(_ context.Context, limit, offset int) ([]map[string]any, error) {
			gotLimit, gotOffset = limit, offset
			return []map[string]any{}, nil
		},
	}, stubService{})

	token := authToken(t, "admin-1", models.RoleAdmin)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/audit?limit=10&page=3", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authWrap(handler.ListAuditLogs).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Fatalf("unexpected pagination limit=%d offset=%d", gotLimit, gotOffset)
	}
}
