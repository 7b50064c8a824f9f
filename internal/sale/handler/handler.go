package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/internal/sale"
	"github.com/lunapos/checkout-service/internal/sale/dto"
	"github.com/lunapos/checkout-service/internal/server"
)

type SaleHandler struct {
	uc     sale.UseCase
	logger *zap.Logger
}

func NewSaleHandler(uc sale.UseCase, log *zap.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, logger: log}
}

func (h *SaleHandler) Register(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{receiptNumber}", h.GetByReceipt)
	})
}

func (h *SaleHandler) GetByReceipt(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.GetByReceipt(r.Context(), chi.URLParam(r, "receiptNumber"))
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, s)
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.SaleFilters{
		CustomerID:    q.Get("customer_id"),
		PaymentMethod: q.Get("payment_method"),
		CashierID:     q.Get("cashier_id"),
		Page:          intParam(q.Get("page"), 1),
		PageSize:      intParam(q.Get("page_size"), 50),
	}
	if t, ok := timeParam(q.Get("from")); ok {
		filters.StartDate = &t
	}
	if t, ok := timeParam(q.Get("to")); ok {
		filters.EndDate = &t
	}

	items, total, err := h.uc.List(r.Context(), filters)
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]any{
		"sales": items,
		"total": total,
	})
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
