package sale

import (
	"context"

	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/sale/dto"
)

type UseCase interface {
	GetByReceipt(ctx context.Context, receiptNumber string) (*model.Sale, error)
	List(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
}
