package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/internal/credit"
	"github.com/lunapos/checkout-service/internal/credit/dto"
	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/store/memory"
)

func newFixture(t *testing.T) (*memory.Store, credit.UseCase) {
	t.Helper()
	store := memory.NewStore()
	uc := NewCreditUseCase(store, zap.NewNop())
	return store, uc
}

func seedCustomer(store *memory.Store, id string, balanceCents int64) {
	c := model.Customer{
		Name:               "Customer " + id,
		CreditBalanceCents: balanceCents,
		IsActive:           true,
	}
	c.ID = id
	store.AddCustomer(c)
}

func TestPostPaymentReducesBalance(t *testing.T) {
	store, uc := newFixture(t)
	seedCustomer(store, "c1", 5000)

	tx, err := uc.PostPayment(context.Background(), &dto.PostPaymentInput{
		CustomerID:  "c1",
		AmountCents: 2000,
		Reference:   "cash drawer 3",
	})
	require.NoError(t, err)

	assert.Equal(t, model.CreditPayment, tx.Type)
	assert.Equal(t, int64(-2000), tx.AmountCents)
	assert.Equal(t, int64(3000), tx.BalanceAfterCents)

	c, err := store.GetCustomer(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), c.CreditBalanceCents)
}

func TestPostPaymentOverpaymentRejected(t *testing.T) {
	store, uc := newFixture(t)
	seedCustomer(store, "c1", 1000)

	_, err := uc.PostPayment(context.Background(), &dto.PostPaymentInput{
		CustomerID:  "c1",
		AmountCents: 1500,
	})
	require.ErrorIs(t, err, model.ErrOverpayment)

	c, err := store.GetCustomer(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.CreditBalanceCents)
}

func TestPostPaymentNegativeBalanceAllowed(t *testing.T) {
	store, uc := newFixture(t)
	store.AllowNegativeBalance = true
	seedCustomer(store, "c1", 1000)

	tx, err := uc.PostPayment(context.Background(), &dto.PostPaymentInput{
		CustomerID:  "c1",
		AmountCents: 1500,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-500), tx.BalanceAfterCents)
}

func TestPostPaymentValidation(t *testing.T) {
	_, uc := newFixture(t)

	_, err := uc.PostPayment(context.Background(), &dto.PostPaymentInput{CustomerID: "c1"})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = uc.PostPayment(context.Background(), &dto.PostPaymentInput{AmountCents: 100})
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestPostPaymentInactiveCustomer(t *testing.T) {
	store, uc := newFixture(t)
	c := model.Customer{Name: "Closed", CreditBalanceCents: 1000, IsActive: false}
	c.ID = "c1"
	store.AddCustomer(c)

	_, err := uc.PostPayment(context.Background(), &dto.PostPaymentInput{
		CustomerID:  "c1",
		AmountCents: 100,
	})
	require.ErrorIs(t, err, model.ErrCustomerInactive)
}

func TestPostAdjustment(t *testing.T) {
	store, uc := newFixture(t)
	seedCustomer(store, "c1", 1000)

	tx, err := uc.PostAdjustment(context.Background(), &dto.PostAdjustmentInput{
		CustomerID:  "c1",
		AmountCents: 500,
		Description: "billing correction for damaged goods",
	})
	require.NoError(t, err)
	assert.Equal(t, model.CreditAdjustment, tx.Type)
	assert.Equal(t, int64(1500), tx.BalanceAfterCents)
}

func TestPostAdjustmentRequiresDescription(t *testing.T) {
	store, uc := newFixture(t)
	seedCustomer(store, "c1", 1000)

	_, err := uc.PostAdjustment(context.Background(), &dto.PostAdjustmentInput{
		CustomerID:  "c1",
		AmountCents: 500,
	})
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestLedgerFoldMatchesBalance(t *testing.T) {
	store, uc := newFixture(t)
	seedCustomer(store, "c1", 0)

	_, err := uc.PostAdjustment(context.Background(), &dto.PostAdjustmentInput{
		CustomerID: "c1", AmountCents: 4000, Description: "opening balance migration",
	})
	require.NoError(t, err)
	_, err = uc.PostPayment(context.Background(), &dto.PostPaymentInput{
		CustomerID: "c1", AmountCents: 1500,
	})
	require.NoError(t, err)

	folded, err := store.FoldBalance(context.Background(), "c1")
	require.NoError(t, err)

	c, err := store.GetCustomer(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, c.CreditBalanceCents, folded)
	assert.Equal(t, int64(2500), folded)
}

func TestReconcileConsistent(t *testing.T) {
	store, uc := newFixture(t)
	seedCustomer(store, "c1", 0)

	_, err := uc.PostAdjustment(context.Background(), &dto.PostAdjustmentInput{
		CustomerID: "c1", AmountCents: 2000, Description: "opening balance migration",
	})
	require.NoError(t, err)
	_, err = uc.PostPayment(context.Background(), &dto.PostPaymentInput{
		CustomerID: "c1", AmountCents: 500,
	})
	require.NoError(t, err)

	result, err := uc.Reconcile(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, result.Consistent)
	assert.Equal(t, int64(1500), result.LedgerCents)
	assert.Equal(t, int64(1500), result.BalanceCents)
}

func TestReconcileUnknownCustomer(t *testing.T) {
	_, uc := newFixture(t)

	_, err := uc.Reconcile(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrCustomerNotFound)
}

func TestSummaryAndTransactionList(t *testing.T) {
	store, uc := newFixture(t)
	seedCustomer(store, "c1", 0)
	seedCustomer(store, "c2", 0)
	seedCustomer(store, "c3", 0)

	_, err := uc.PostAdjustment(context.Background(), &dto.PostAdjustmentInput{
		CustomerID: "c1", AmountCents: 3000, Description: "opening balance migration",
	})
	require.NoError(t, err)
	_, err = uc.PostAdjustment(context.Background(), &dto.PostAdjustmentInput{
		CustomerID: "c2", AmountCents: 2000, Description: "opening balance migration",
	})
	require.NoError(t, err)

	summary, err := uc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5000), summary.OutstandingCents)
	assert.Equal(t, 2, summary.Debtors)

	items, total, err := uc.ListTransactions(context.Background(), &dto.TransactionFilters{CustomerID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, model.CreditAdjustment, items[0].Type)
}
