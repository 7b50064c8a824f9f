package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/internal/auth"
	"github.com/lunapos/checkout-service/internal/server"
	"github.com/lunapos/checkout-service/internal/stock"
	"github.com/lunapos/checkout-service/internal/stock/dto"
)

type StockHandler struct {
	uc     stock.UseCase
	logger *zap.Logger
}

func NewStockHandler(uc stock.UseCase, log *zap.Logger) *StockHandler {
	return &StockHandler{uc: uc, logger: log}
}

func (h *StockHandler) Register(r chi.Router) {
	r.Route("/stock", func(r chi.Router) {
		r.Post("/movements", h.PostMovement)
		r.Get("/movements", h.ListMovements)
		r.Get("/low", h.ListLowStock)
		r.Get("/products/{productID}", h.GetProduct)
		r.Post("/{productID}/reconcile", h.Reconcile)
	})
}

func (h *StockHandler) PostMovement(w http.ResponseWriter, r *http.Request) {
	var input dto.PostMovementInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		server.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	input.ActorID = auth.GetCashierID(r.Context())

	movement, err := h.uc.PostMovement(r.Context(), &input)
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, movement)
}

func (h *StockHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.MovementFilters{
		ProductID: q.Get("product_id"),
		Reason:    q.Get("reason"),
		Page:      intParam(q.Get("page"), 1),
		PageSize:  intParam(q.Get("page_size"), 50),
	}
	if t, ok := timeParam(q.Get("from")); ok {
		filters.StartDate = &t
	}
	if t, ok := timeParam(q.Get("to")); ok {
		filters.EndDate = &t
	}

	items, total, err := h.uc.ListMovements(r.Context(), filters)
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]any{
		"movements": items,
		"total":     total,
	})
}

func (h *StockHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, total, err := h.uc.ListLowStock(r.Context(), intParam(q.Get("page"), 1), intParam(q.Get("page_size"), 50))
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]any{
		"products": items,
		"total":    total,
	})
}

func (h *StockHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.uc.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, product)
}

func (h *StockHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.uc.Reconcile(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, result)
}

func intParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return fallback
}

func timeParam(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
