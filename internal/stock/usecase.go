package stock

import (
	"context"

	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/stock/dto"
)

type UseCase interface {
	// PostMovement records a manual stock change (receive, adjustment,
	// damage, theft, return). Sale movements are appended only by the
	// checkout engine.
	PostMovement(ctx context.Context, input *dto.PostMovementInput) (*model.StockMovement, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	ListLowStock(ctx context.Context, page, pageSize int) ([]model.Product, int, error)
	Reconcile(ctx context.Context, productID string) (*dto.ReconcileResult, error)
}
