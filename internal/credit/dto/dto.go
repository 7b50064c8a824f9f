package dto

import "time"

type TransactionFilters struct {
	CustomerID string
	Type       string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

// CreditSummary aggregates the outstanding store-credit exposure across
// all customers with a positive balance.
type CreditSummary struct {
	OutstandingCents int64 `json:"outstanding_cents"`
	Debtors          int   `json:"debtors"`
}

// ReconcileResult compares the ledger fold against the customer's cached
// balance. The two are updated in the same transaction, so any divergence
// means corruption outside the ledger's control.
type ReconcileResult struct {
	CustomerID   string `json:"customer_id"`
	LedgerCents  int64  `json:"ledger_cents"`
	BalanceCents int64  `json:"balance_cents"`
	Consistent   bool   `json:"consistent"`
}
