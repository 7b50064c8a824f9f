package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/internal/credit"
	"github.com/lunapos/checkout-service/internal/credit/dto"
	"github.com/lunapos/checkout-service/internal/model"
)

type creditUseCase struct {
	repo   credit.Repository
	logger *zap.Logger
}

func NewCreditUseCase(repo credit.Repository, log *zap.Logger) credit.UseCase {
	return &creditUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *creditUseCase) PostPayment(ctx context.Context, input *dto.PostPaymentInput) (*model.CreditTransaction, error) {
	if input.CustomerID == "" || input.AmountCents < 1 {
		return nil, model.ErrInvalidInput
	}

	tx := &model.CreditTransaction{
		ID:         uuid.New().String(),
		CustomerID: input.CustomerID,
		Type:       model.CreditPayment,
		// Payments reduce the outstanding balance.
		AmountCents: -input.AmountCents,
		CreatedAt:   time.Now().UTC(),
	}
	if input.Reference != "" {
		tx.Reference = &input.Reference
	}
	if input.Description != "" {
		tx.Description = &input.Description
	}

	posted, err := uc.repo.PostTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("credit payment posted",
		zap.String("customer_id", posted.CustomerID),
		zap.Int64("amount_cents", input.AmountCents),
		zap.Int64("balance_after_cents", posted.BalanceAfterCents),
	)
	return posted, nil
}

func (uc *creditUseCase) PostAdjustment(ctx context.Context, input *dto.PostAdjustmentInput) (*model.CreditTransaction, error) {
	if input.CustomerID == "" || input.AmountCents == 0 {
		return nil, model.ErrInvalidInput
	}
	// Adjustments must say what they correct.
	if input.Description == "" {
		return nil, model.ErrInvalidInput
	}

	tx := &model.CreditTransaction{
		ID:          uuid.New().String(),
		CustomerID:  input.CustomerID,
		Type:        model.CreditAdjustment,
		AmountCents: input.AmountCents,
		Description: &input.Description,
		CreatedAt:   time.Now().UTC(),
	}

	posted, err := uc.repo.PostTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("credit adjustment posted",
		zap.String("customer_id", posted.CustomerID),
		zap.Int64("amount_cents", posted.AmountCents),
		zap.Int64("balance_after_cents", posted.BalanceAfterCents),
	)
	return posted, nil
}

func (uc *creditUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	if id == "" {
		return nil, model.ErrInvalidInput
	}
	return uc.repo.GetCustomer(ctx, id)
}

func (uc *creditUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.CreditTransaction, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 200 {
		filters.PageSize = 50
	}
	return uc.repo.ListTransactions(ctx, filters)
}

func (uc *creditUseCase) Summary(ctx context.Context) (*dto.CreditSummary, error) {
	return uc.repo.Summary(ctx)
}

func (uc *creditUseCase) Reconcile(ctx context.Context, customerID string) (*dto.ReconcileResult, error) {
	if customerID == "" {
		return nil, model.ErrInvalidInput
	}

	customer, err := uc.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	folded, err := uc.repo.FoldBalance(ctx, customerID)
	if err != nil {
		return nil, err
	}

	result := &dto.ReconcileResult{
		CustomerID:   customerID,
		LedgerCents:  folded,
		BalanceCents: customer.CreditBalanceCents,
		Consistent:   folded == customer.CreditBalanceCents,
	}
	if !result.Consistent {
		uc.logger.Error("credit ledger divergence",
			zap.String("customer_id", customerID),
			zap.Int64("ledger_cents", folded),
			zap.Int64("balance_cents", customer.CreditBalanceCents),
		)
	}
	return result, nil
}
