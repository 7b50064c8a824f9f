package stock

import (
	"context"

	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/stock/dto"
)

type Repository interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)

	// PostMovement appends the movement and updates the product's cached
	// quantity in one transaction. The repository fills in the before/after
	// snapshots from the locked row; an out movement that would push the
	// quantity negative fails with InsufficientStock.
	PostMovement(ctx context.Context, movement *model.StockMovement) (*model.StockMovement, error)

	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	ListLowStock(ctx context.Context, page, pageSize int) ([]model.Product, int, error)

	// FoldQuantity sums the signed deltas of every movement for the product.
	FoldQuantity(ctx context.Context, productID string) (int, error)
}
