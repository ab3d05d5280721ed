package handlers

import (
	"net/http"

	"funds/internal/config"
	"funds/internal/db"
	"funds/internal/middleware"
	"funds/internal/models"
	"funds/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner db.TxRunner
	cfg      config.Config
	users    UserStore
	funds    FundStore
	audit    AuditStore
	service  SubscriptionService
	hub      *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, funds FundStore, audit AuditStore, service SubscriptionService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner: txRunner,
		cfg:      cfg,
		users:    users,
		funds:    funds,
		audit:    audit,
		service:  service,
		hub:      hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})
	router.Get("/funds", h.ListFunds)
	router.Get("/funds/{id}", h.GetFund)
	router.With(middleware.Auth(h.cfg.JWTSecret), middleware.RequireRole(models.RoleAdmin)).Post("/funds", h.CreateFund)
	router.With(middleware.Auth(h.cfg.JWTSecret), middleware.RequireRole(models.RoleAdmin)).Put("/funds/{id}", h.UpdateFund)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Post("/transactions/subscribe", h.Subscribe)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Post("/transactions/cancel", h.Cancel)
	router.With(middleware.Auth(h.cfg.JWTSecret)).Get("/transactions", h.ListTransactions)
	router.Get("/ws/balances", h.WSBalances)

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Use(middleware.RequireRole(models.RoleAdmin))
		r.Get("/users", h.AdminListUsers)
		r.Get("/users/{id}", h.AdminGetUser)
		r.Put("/users/{id}", h.AdminUpdateUser)
		r.Get("/transactions", h.AdminListTransactions)
		r.Get("/transactions/user/{userID}", h.AdminListUserTransactions)
		r.Get("/audit", h.ListAuditLogs)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
