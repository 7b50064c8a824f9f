package credit

import (
	"context"

	"github.com/lunapos/checkout-service/internal/credit/dto"
	"github.com/lunapos/checkout-service/internal/model"
)

type Repository interface {
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)

	// PostTransaction appends the entry and updates the customer's cached
	// balance in one transaction. The repository fills in BalanceAfterCents
	// from the locked row. A payment that would push the balance negative
	// fails with ErrOverpayment unless negative balances are allowed.
	PostTransaction(ctx context.Context, tx *model.CreditTransaction) (*model.CreditTransaction, error)

	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.CreditTransaction, int, error)
	Summary(ctx context.Context) (*dto.CreditSummary, error)

	// FoldBalance sums every ledger entry for the customer.
	FoldBalance(ctx context.Context, customerID string) (int64, error)
}
