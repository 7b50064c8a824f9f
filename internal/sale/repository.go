package sale

import (
	"context"

	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/sale/dto"
)

type Repository interface {
	// GetByReceipt returns the sale with its line items.
	GetByReceipt(ctx context.Context, receiptNumber string) (*model.Sale, error)

	// List returns sale headers without line items.
	List(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
}
