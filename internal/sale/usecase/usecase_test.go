package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	checkoutdto "github.com/lunapos/checkout-service/internal/checkout/dto"
	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/sale"
	"github.com/lunapos/checkout-service/internal/sale/dto"
	"github.com/lunapos/checkout-service/internal/store/memory"
)

func newFixture(t *testing.T) (*memory.Store, sale.UseCase) {
	t.Helper()
	store := memory.NewStore()
	uc := NewSaleUseCase(store, zap.NewNop())
	return store, uc
}

func commitSale(t *testing.T, store *memory.Store, cashierID string) *model.Sale {
	t.Helper()
	for i, id := range []string{"p1", "p2", "p3"} {
		p := model.Product{Name: "Widget " + id, SKU: "SKU-" + id, PriceCents: int64(250 * (i + 1)), Quantity: 100, IsActive: true}
		p.ID = id
		store.AddProduct(p)
	}

	// Rung up out of catalog order on purpose.
	s, err := store.CreateSale(context.Background(), &checkoutdto.CheckoutInput{
		Cart: []checkoutdto.CartLineInput{
			{ProductID: "p3", Quantity: 1},
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
		PaymentMethod:   model.PaymentCash,
		AmountPaidCents: 2000,
		CashierID:       cashierID,
	})
	require.NoError(t, err)
	return s
}

func TestGetByReceipt(t *testing.T) {
	store, uc := newFixture(t)
	committed := commitSale(t, store, "cashier-1")

	s, err := uc.GetByReceipt(context.Background(), committed.ReceiptNumber)
	require.NoError(t, err)
	assert.Equal(t, committed.ID, s.ID)
	// 750 + 2*250 + 500
	assert.Equal(t, int64(1750), s.TotalCents)

	// Items come back in the order the cashier rang them.
	require.Len(t, s.Items, 3)
	for i, productID := range []string{"p3", "p1", "p2"} {
		assert.Equal(t, i+1, s.Items[i].LineNo)
		assert.Equal(t, productID, s.Items[i].ProductID)
	}
}

func TestGetByReceiptMalformed(t *testing.T) {
	_, uc := newFixture(t)

	_, err := uc.GetByReceipt(context.Background(), "not-a-receipt")
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestGetByReceiptUnknown(t *testing.T) {
	_, uc := newFixture(t)

	_, err := uc.GetByReceipt(context.Background(), "POS-20260901-000099")
	require.ErrorIs(t, err, model.ErrSaleNotFound)
}

func TestListFilters(t *testing.T) {
	store, uc := newFixture(t)
	commitSale(t, store, "cashier-1")

	items, total, err := uc.List(context.Background(), &dto.SaleFilters{CashierID: "cashier-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	// Listing returns headers only.
	assert.Empty(t, items[0].Items)

	_, total, err = uc.List(context.Background(), &dto.SaleFilters{CashierID: "cashier-2"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestListRejectsUnknownPaymentMethod(t *testing.T) {
	_, uc := newFixture(t)

	_, _, err := uc.List(context.Background(), &dto.SaleFilters{PaymentMethod: "barter"})
	require.ErrorIs(t, err, model.ErrInvalidInput)
}
