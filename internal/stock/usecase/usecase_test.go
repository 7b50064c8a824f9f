package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/stock"
	"github.com/lunapos/checkout-service/internal/stock/dto"
	"github.com/lunapos/checkout-service/internal/store/memory"
)

func newFixture(t *testing.T) (*memory.Store, stock.UseCase) {
	t.Helper()
	store := memory.NewStore()
	uc := NewStockUseCase(store, nil, nil, zap.NewNop())
	return store, uc
}

func seedProduct(store *memory.Store, id string, qty, minStock int) {
	p := model.Product{
		Name:     "Product " + id,
		SKU:      "SKU-" + id,
		Quantity: qty,
		MinStock: minStock,
		IsActive: true,
	}
	p.ID = id
	store.AddProduct(p)
}

func TestPostMovementReceive(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(store, "p1", 5, 0)

	m, err := uc.PostMovement(context.Background(), &dto.PostMovementInput{
		ProductID:     "p1",
		Direction:     model.DirectionIn,
		Quantity:      20,
		Reason:        model.ReasonPurchase,
		ReferenceType: "purchase_order",
		ReferenceID:   "po-1",
		ActorID:       "clerk-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, m.QuantityBefore)
	assert.Equal(t, 25, m.QuantityAfter)
	require.NotNil(t, m.ActorID)
	assert.Equal(t, "clerk-1", *m.ActorID)

	p, err := store.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 25, p.Quantity)
}

func TestPostMovementRejectsSaleReason(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(store, "p1", 5, 0)

	_, err := uc.PostMovement(context.Background(), &dto.PostMovementInput{
		ProductID: "p1",
		Direction: model.DirectionOut,
		Quantity:  1,
		Reason:    model.ReasonSale,
	})
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestPostMovementCannotGoNegative(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(store, "p1", 2, 0)

	_, err := uc.PostMovement(context.Background(), &dto.PostMovementInput{
		ProductID: "p1",
		Direction: model.DirectionOut,
		Quantity:  3,
		Reason:    model.ReasonDamaged,
	})

	var stockErr *model.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)

	p, err := store.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Quantity)
}

func TestPostMovementValidation(t *testing.T) {
	_, uc := newFixture(t)

	tests := []struct {
		name  string
		input *dto.PostMovementInput
	}{
		{"missing product", &dto.PostMovementInput{Direction: model.DirectionIn, Quantity: 1, Reason: model.ReasonPurchase}},
		{"zero quantity", &dto.PostMovementInput{ProductID: "p1", Direction: model.DirectionIn, Quantity: 0, Reason: model.ReasonPurchase}},
		{"bad direction", &dto.PostMovementInput{ProductID: "p1", Direction: "sideways", Quantity: 1, Reason: model.ReasonPurchase}},
		{"bad reason", &dto.PostMovementInput{ProductID: "p1", Direction: model.DirectionIn, Quantity: 1, Reason: "shrinkage"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.PostMovement(context.Background(), tt.input)
			require.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestListMovementsFilterAndPaginate(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(store, "p1", 0, 0)
	seedProduct(store, "p2", 0, 0)

	for i := 0; i < 3; i++ {
		_, err := uc.PostMovement(context.Background(), &dto.PostMovementInput{
			ProductID: "p1", Direction: model.DirectionIn, Quantity: 1, Reason: model.ReasonPurchase,
		})
		require.NoError(t, err)
	}
	_, err := uc.PostMovement(context.Background(), &dto.PostMovementInput{
		ProductID: "p2", Direction: model.DirectionIn, Quantity: 1, Reason: model.ReasonReturn,
	})
	require.NoError(t, err)

	items, total, err := uc.ListMovements(context.Background(), &dto.MovementFilters{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 3)

	items, total, err = uc.ListMovements(context.Background(), &dto.MovementFilters{Reason: "return"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	// Page past the end comes back empty but keeps the total.
	items, total, err = uc.ListMovements(context.Background(), &dto.MovementFilters{Page: 5, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Empty(t, items)
}

func TestListLowStock(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(store, "p1", 2, 5)
	seedProduct(store, "p2", 50, 5)
	seedProduct(store, "p3", 0, 0)

	items, total, err := uc.ListLowStock(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
}

func TestReconcileConsistent(t *testing.T) {
	store, uc := newFixture(t)
	seedProduct(store, "p1", 0, 0)

	_, err := uc.PostMovement(context.Background(), &dto.PostMovementInput{
		ProductID: "p1", Direction: model.DirectionIn, Quantity: 10, Reason: model.ReasonPurchase,
	})
	require.NoError(t, err)
	_, err = uc.PostMovement(context.Background(), &dto.PostMovementInput{
		ProductID: "p1", Direction: model.DirectionOut, Quantity: 4, Reason: model.ReasonDamaged,
	})
	require.NoError(t, err)

	result, err := uc.Reconcile(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, result.Consistent)
	assert.Equal(t, 6, result.LedgerQuantity)
	assert.Equal(t, 6, result.CachedQuantity)
}

func TestReconcileUnknownProduct(t *testing.T) {
	_, uc := newFixture(t)

	_, err := uc.Reconcile(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrProductNotFound)
}
