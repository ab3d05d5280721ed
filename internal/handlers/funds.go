package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"funds/internal/middleware"
	"funds/internal/money"
	"funds/internal/store"
	"funds/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func (h *Handler) ListFunds(w http.ResponseWriter, r *http.Request) {
	funds, err := h.funds.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load funds")
		return
	}
	views := make([]map[string]any, 0, len(funds))
	for _, fund := range funds {
		views = append(views, fundView(fund))
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *Handler) GetFund(w http.ResponseWriter, r *http.Request) {
	fundID := chi.URLParam(r, "id")
	fund, err := h.funds.GetByID(r.Context(), fundID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "fund not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load fund")
		return
	}
	respondJSON(w, http.StatusOK, fundView(fund))
}

type createFundRequest struct {
	Name          string `json:"name"`
	MinimumAmount string `json:"minimum_amount"`
	Category      string `json:"category"`
	Description   string `json:"description"`
}

func (h *Handler) CreateFund(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createFundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateFundName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateCategory(req.Category); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	minimum, err := parseAmount(req.MinimumAmount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid minimum_amount")
		return
	}
	fundID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.funds.Create(r.Context(), tx, store.FundInput{
			ID:            fundID,
			Name:          req.Name,
			MinimumAmount: minimum,
			Category:      req.Category,
			Description:   req.Description,
		}); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"name":           req.Name,
			"minimum_amount": money.Format(minimum),
		})
		return h.audit.Log(r.Context(), tx, adminID, "create_fund", "fund", fundID, string(data))
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "fund name already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create fund")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": fundID})
}

type updateFundRequest struct {
	Name          *string `json:"name"`
	MinimumAmount *string `json:"minimum_amount"`
	Category      *string `json:"category"`
	Description   *string `json:"description"`
	IsActive      *bool   `json:"is_active"`
}

// UpdateFund applies a partial update: absent fields keep their stored
// values.
func (h *Handler) UpdateFund(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	fundID := chi.URLParam(r, "id")
	fund, err := h.funds.GetByID(r.Context(), fundID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "fund not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load fund")
		return
	}
	var req updateFundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name != nil {
		if err := validator.ValidateFundName(*req.Name); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		fund.Name = *req.Name
	}
	if req.Category != nil {
		if err := validator.ValidateCategory(*req.Category); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		fund.Category = *req.Category
	}
	if req.MinimumAmount != nil {
		minimum, err := parseAmount(*req.MinimumAmount)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid minimum_amount")
			return
		}
		fund.MinimumAmount = minimum
	}
	if req.Description != nil {
		fund.Description = *req.Description
	}
	if req.IsActive != nil {
		fund.IsActive = *req.IsActive
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.funds.Update(r.Context(), tx, fund); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"name": fund.Name,
		})
		return h.audit.Log(r.Context(), tx, adminID, "update_fund", "fund", fundID, string(data))
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "fund name already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update fund")
		return
	}
	respondJSON(w, http.StatusOK, fundView(fund))
}
