package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lunapos/checkout-service/internal/model"
)

type errorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg, Code: "error"})
}

// WriteDomainError maps the checkout error taxonomy onto HTTP statuses and
// structured bodies. The cashier UI keys off the code: 409 means "nothing
// happened, resubmit", 422 means "fix the cart or pick another customer",
// 5xx means a storage fault.
func WriteDomainError(w http.ResponseWriter, err error) {
	var stockErr *model.InsufficientStockError
	var payErr *model.InsufficientPaymentError
	var limitErr *model.CreditLimitExceededError

	switch {
	case errors.As(err, &stockErr):
		WriteJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error: stockErr.Error(),
			Code:  "insufficient_stock",
			Details: map[string]any{
				"product_id": stockErr.ProductID,
				"requested":  stockErr.Requested,
				"available":  stockErr.Available,
			},
		})
	case errors.As(err, &payErr):
		WriteJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error: payErr.Error(),
			Code:  "insufficient_payment",
			Details: map[string]any{
				"total_cents": payErr.TotalCents,
				"paid_cents":  payErr.PaidCents,
			},
		})
	case errors.As(err, &limitErr):
		WriteJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error: limitErr.Error(),
			Code:  "credit_limit_exceeded",
			Details: map[string]any{
				"limit_cents":   limitErr.LimitCents,
				"balance_cents": limitErr.BalanceCents,
				"total_cents":   limitErr.TotalCents,
			},
		})
	case errors.Is(err, model.ErrProductNotFound), errors.Is(err, model.ErrCustomerNotFound),
		errors.Is(err, model.ErrSaleNotFound):
		WriteJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, model.ErrEmptyCart), errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrCustomerRequired):
		WriteJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "validation"})
	case errors.Is(err, model.ErrProductInactive), errors.Is(err, model.ErrCustomerInactive),
		errors.Is(err, model.ErrOverpayment):
		WriteJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Code: "rejected"})
	case errors.Is(err, model.ErrConflict):
		WriteJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Code: "conflict"})
	default:
		WriteJSON(w, http.StatusInternalServerError, errorBody{
			Error: "internal error",
			Code:  "persistence_failure",
		})
	}
}
