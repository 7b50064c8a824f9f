package model

import "time"

type CreditTransactionType string

const (
	CreditPurchase   CreditTransactionType = "purchase"
	CreditPayment    CreditTransactionType = "payment"
	CreditAdjustment CreditTransactionType = "adjustment"
)

func (t CreditTransactionType) Valid() bool {
	switch t {
	case CreditPurchase, CreditPayment, CreditAdjustment:
		return true
	}
	return false
}

// CreditTransaction is one immutable entry in a customer's store-credit
// ledger. AmountCents is signed: purchases increase the outstanding balance,
// payments decrease it. BalanceAfterCents is a snapshot of the customer's
// balance taken in the same transaction that appended the entry, so the
// cached Customer.CreditBalanceCents always equals the fold of the ledger.
type CreditTransaction struct {
	ID                string                `db:"id" json:"id"`
	CustomerID        string                `db:"customer_id" json:"customer_id"`
	Type              CreditTransactionType `db:"type" json:"type"`
	AmountCents       int64                 `db:"amount_cents" json:"amount_cents"`
	BalanceAfterCents int64                 `db:"balance_after_cents" json:"balance_after_cents"`
	SaleID            *string               `db:"sale_id" json:"sale_id"`
	Reference         *string               `db:"reference" json:"reference"`
	Description       *string               `db:"description" json:"description"`
	CreatedAt         time.Time             `db:"created_at" json:"created_at"`
}
