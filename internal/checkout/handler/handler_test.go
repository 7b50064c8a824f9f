package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/internal/auth"
	"github.com/lunapos/checkout-service/internal/checkout/dto"
	"github.com/lunapos/checkout-service/internal/checkout/usecase"
	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/store/memory"
)

func newServer(t *testing.T) (*memory.Store, http.Handler) {
	t.Helper()
	store := memory.NewStore()
	uc := usecase.NewCheckoutUseCase(store, nil, zap.NewNop())

	r := chi.NewRouter()
	r.Use(auth.Middleware)
	NewCheckoutHandler(uc, zap.NewNop()).Register(r)
	return store, r
}

func postCheckout(t *testing.T, h http.Handler, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cashier-ID", "cashier-7")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutEndpoint(t *testing.T) {
	store, h := newServer(t)
	p := model.Product{Name: "Widget", SKU: "SKU-1", PriceCents: 500, Quantity: 10, IsActive: true}
	p.ID = "p1"
	store.AddProduct(p)

	rec := postCheckout(t, h, map[string]any{
		"cart":              []map[string]any{{"product_id": "p1", "quantity": 2}},
		"payment_method":    "cash",
		"amount_paid_cents": 1500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1000), resp.TotalCents)
	assert.Equal(t, int64(500), resp.ChangeCents)
	assert.NotEmpty(t, resp.ReceiptNumber)
	require.NotNil(t, resp.Sale)
	assert.Equal(t, "cashier-7", resp.Sale.CashierID)
}

func TestCheckoutEndpointInsufficientStock(t *testing.T) {
	store, h := newServer(t)
	p := model.Product{Name: "Widget", SKU: "SKU-1", PriceCents: 500, Quantity: 1, IsActive: true}
	p.ID = "p1"
	store.AddProduct(p)

	rec := postCheckout(t, h, map[string]any{
		"cart":              []map[string]any{{"product_id": "p1", "quantity": 3}},
		"payment_method":    "cash",
		"amount_paid_cents": 5000,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "insufficient_stock", body.Code)
	assert.Equal(t, "p1", body.Details["product_id"])
}

func TestCheckoutEndpointEmptyCart(t *testing.T) {
	_, h := newServer(t)

	rec := postCheckout(t, h, map[string]any{
		"cart":           []map[string]any{},
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutEndpointMalformedBody(t *testing.T) {
	_, h := newServer(t)

	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader([]byte("{not json")))
	req.Header.Set("X-Cashier-ID", "cashier-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutEndpointIgnoresClientCashierField(t *testing.T) {
	store, h := newServer(t)
	p := model.Product{Name: "Widget", SKU: "SKU-1", PriceCents: 500, Quantity: 10, IsActive: true}
	p.ID = "p1"
	store.AddProduct(p)

	// A cashier_id in the body must not override the authenticated header.
	rec := postCheckout(t, h, map[string]any{
		"cart":              []map[string]any{{"product_id": "p1", "quantity": 1}},
		"payment_method":    "cash",
		"amount_paid_cents": 500,
		"cashier_id":        "spoofed",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cashier-7", resp.Sale.CashierID)
}
