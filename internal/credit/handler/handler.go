package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/internal/auth"
	"github.com/lunapos/checkout-service/internal/credit"
	"github.com/lunapos/checkout-service/internal/credit/dto"
	"github.com/lunapos/checkout-service/internal/server"
)

type CreditHandler struct {
	uc     credit.UseCase
	logger *zap.Logger
}

func NewCreditHandler(uc credit.UseCase, log *zap.Logger) *CreditHandler {
	return &CreditHandler{uc: uc, logger: log}
}

func (h *CreditHandler) Register(r chi.Router) {
	r.Route("/credit", func(r chi.Router) {
		r.Get("/summary", h.Summary)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Post("/payments", h.PostPayment)
			r.Post("/adjustments", h.PostAdjustment)
			r.Get("/transactions", h.ListTransactions)
			r.Post("/reconcile", h.Reconcile)
		})
	})
}

func (h *CreditHandler) PostPayment(w http.ResponseWriter, r *http.Request) {
	var input dto.PostPaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		server.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	input.CustomerID = chi.URLParam(r, "customerID")
	input.ActorID = auth.GetCashierID(r.Context())

	tx, err := h.uc.PostPayment(r.Context(), &input)
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, tx)
}

func (h *CreditHandler) PostAdjustment(w http.ResponseWriter, r *http.Request) {
	var input dto.PostAdjustmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		server.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	input.CustomerID = chi.URLParam(r, "customerID")
	input.ActorID = auth.GetCashierID(r.Context())

	tx, err := h.uc.PostAdjustment(r.Context(), &input)
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusCreated, tx)
}

func (h *CreditHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.TransactionFilters{
		CustomerID: chi.URLParam(r, "customerID"),
		Type:       q.Get("type"),
		Page:       intParam(q.Get("page"), 1),
		PageSize:   intParam(q.Get("page_size"), 50),
	}
	if t, ok := timeParam(q.Get("from")); ok {
		filters.StartDate = &t
	}
	if t, ok := timeParam(q.Get("to")); ok {
		filters.EndDate = &t
	}

	items, total, err := h.uc.ListTransactions(r.Context(), filters)
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]any{
		"transactions": items,
		"total":        total,
	})
}

func (h *CreditHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.uc.Summary(r.Context())
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, summary)
}

func (h *CreditHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.uc.GetCustomer(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, customer)
}

func (h *CreditHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.uc.Reconcile(r.Context(), chi.URLParam(r, "customerID"))
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
