package dto

import "time"

type MovementFilters struct {
	ProductID string
	Reason    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// ReconcileResult compares the ledger fold against the cached product
// quantity. The two are updated in the same transaction, so any divergence
// means corruption outside the ledger's control.
type ReconcileResult struct {
	ProductID      string `json:"product_id"`
	LedgerQuantity int    `json:"ledger_quantity"`
	CachedQuantity int    `json:"cached_quantity"`
	Consistent     bool   `json:"consistent"`
}
