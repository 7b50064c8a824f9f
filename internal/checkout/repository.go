package checkout

import (
	"context"

	"github.com/lunapos/checkout-service/internal/checkout/dto"
	"github.com/lunapos/checkout-service/internal/model"
)

type Repository interface {
	// CreateSale applies the whole checkout effect as one atomic unit:
	// re-validate stock and credit against locked rows, allocate the
	// receipt number, decrement quantities, append the stock and credit
	// ledger entries and persist the sale. Any failure leaves no trace.
	CreateSale(ctx context.Context, input *dto.CheckoutInput) (*model.Sale, error)
}
