package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/receipt"
	"github.com/lunapos/checkout-service/internal/sale"
	"github.com/lunapos/checkout-service/internal/sale/dto"
)

type saleUseCase struct {
	repo   sale.Repository
	logger *zap.Logger
}

func NewSaleUseCase(repo sale.Repository, log *zap.Logger) sale.UseCase {
	return &saleUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *saleUseCase) GetByReceipt(ctx context.Context, receiptNumber string) (*model.Sale, error) {
	// Reject malformed numbers before hitting the store.
	if _, _, err := receipt.Parse(receiptNumber); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return uc.repo.GetByReceipt(ctx, receiptNumber)
}

func (uc *saleUseCase) List(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 200 {
		filters.PageSize = 50
	}
	if filters.PaymentMethod != "" && !model.PaymentMethod(filters.PaymentMethod).Valid() {
		return nil, 0, fmt.Errorf("%w: unknown payment method %q", model.ErrInvalidInput, filters.PaymentMethod)
	}
	return uc.repo.List(ctx, filters)
}
