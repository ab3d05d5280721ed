package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"funds/internal/middleware"
	"funds/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	views := make([]map[string]any, 0, len(users))
	for _, user := range users {
		views = append(views, userView(user))
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *Handler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	respondJSON(w, http.StatusOK, userView(user))
}

type updateUserRequest struct {
	FirstName              *string `json:"first_name"`
	LastName               *string `json:"last_name"`
	PhoneNumber            *string `json:"phone_number"`
	NotificationPreference *string `json:"notification_preference"`
	IsActive               *bool   `json:"is_active"`
}

// AdminUpdateUser applies a partial profile update. Balance and role are
// not editable through this endpoint: the balance only moves through the
// subscription engine.
func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID := chi.URLParam(r, "id")
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.FirstName != nil {
		if err := validator.ValidateName(*req.FirstName); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		if err := validator.ValidateName(*req.LastName); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		if err := validator.ValidatePhone(*req.PhoneNumber); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.NotificationPreference != nil {
		if err := validator.ValidatePreference(*req.NotificationPreference); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		user.NotificationPreference = *req.NotificationPreference
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.users.UpdateProfile(r.Context(), tx, user); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"target_user_id": userID,
		})
		return h.audit.Log(r.Context(), tx, adminID, "update_user", "user", userID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update user")
		return
	}
	respondJSON(w, http.StatusOK, userView(user))
}

func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.service.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transactionViews(transactions))
}

func (h *Handler) AdminListUserTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	transactions, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transactionViews(transactions))
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 50)
	page := parseInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	rows, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
