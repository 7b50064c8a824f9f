package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/internal/auth"
	"github.com/lunapos/checkout-service/internal/checkout"
	"github.com/lunapos/checkout-service/internal/checkout/dto"
	"github.com/lunapos/checkout-service/internal/server"
)

type CheckoutHandler struct {
	uc     checkout.UseCase
	logger *zap.Logger
}

func NewCheckoutHandler(uc checkout.UseCase, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, logger: log}
}

func (h *CheckoutHandler) Register(r chi.Router) {
	r.Post("/checkout", h.Checkout)
}

// Checkout handles POST /api/v1/checkout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var input dto.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		server.WriteError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	input.CashierID = auth.GetCashierID(r.Context())

	sale, err := h.uc.Checkout(r.Context(), &input)
	if err != nil {
		server.WriteDomainError(w, err)
		return
	}

	server.WriteJSON(w, http.StatusCreated, dto.CheckoutResponse{
		ReceiptNumber: sale.ReceiptNumber,
		TotalCents:    sale.TotalCents,
		ChangeCents:   sale.ChangeCents,
		Sale:          sale,
	})
}
