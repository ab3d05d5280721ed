package handlers

import (
	"encoding/json"
	"net/http"

	"funds/internal/models"
	"funds/internal/money"
	"funds/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the engine's error kinds onto HTTP statuses.
// Not-found gets 404, business rejections get 400 with the stable reason
// code, and anything else collapses to a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error":   services.ReasonOf(err),
			"message": err.Error(),
		})
	case services.KindBusiness:
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":   services.ReasonOf(err),
			"message": err.Error(),
		})
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func userView(user models.User) map[string]any {
	return map[string]any{
		"id":                      user.ID,
		"username":                user.Username,
		"email":                   user.Email,
		"first_name":              user.FirstName,
		"last_name":               user.LastName,
		"phone_number":            user.PhoneNumber,
		"balance":                 money.Format(user.Balance),
		"role":                    user.Role,
		"notification_preference": user.NotificationPreference,
		"is_active":               user.IsActive,
		"created_at":              user.CreatedAt,
	}
}

func fundView(fund models.Fund) map[string]any {
	return map[string]any{
		"id":             fund.ID,
		"name":           fund.Name,
		"minimum_amount": money.Format(fund.MinimumAmount),
		"category":       fund.Category,
		"description":    fund.Description,
		"is_active":      fund.IsActive,
		"created_at":     fund.CreatedAt,
	}
}

func transactionView(tx models.Transaction) map[string]any {
	view := map[string]any{
		"id":               tx.ID,
		"user_id":          tx.UserID,
		"fund_id":          tx.FundID,
		"fund_name":        tx.FundName,
		"type":             tx.Type,
		"amount":           money.Format(tx.Amount),
		"transaction_date": tx.TransactionDate,
	}
	if tx.CancellationDate != nil {
		view["cancellation_date"] = *tx.CancellationDate
	}
	return view
}

func transactionViews(transactions []models.Transaction) []map[string]any {
	views := make([]map[string]any, 0, len(transactions))
	for _, tx := range transactions {
		views = append(views, transactionView(tx))
	}
	return views
}
