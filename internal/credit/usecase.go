package credit

import (
	"context"

	"github.com/lunapos/checkout-service/internal/credit/dto"
	"github.com/lunapos/checkout-service/internal/model"
)

type UseCase interface {
	// PostPayment records a payment against the customer's outstanding
	// balance. Purchase entries are appended only by the checkout engine.
	PostPayment(ctx context.Context, input *dto.PostPaymentInput) (*model.CreditTransaction, error)
	PostAdjustment(ctx context.Context, input *dto.PostAdjustmentInput) (*model.CreditTransaction, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.CreditTransaction, int, error)
	Summary(ctx context.Context) (*dto.CreditSummary, error)
	Reconcile(ctx context.Context, customerID string) (*dto.ReconcileResult, error)
}
