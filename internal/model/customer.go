package model

type Customer struct {
	BaseModel
	Name string `db:"name" json:"name"`
	// Nullable contact fields; customer records are owned by the
	// customer-management service, we only read and post balances.
	Phone *string `db:"phone" json:"phone"`
	Email *string `db:"email" json:"email"`
	// CreditLimitCents of 0 means unlimited credit.
	CreditLimitCents   int64 `db:"credit_limit_cents" json:"credit_limit_cents"`
	CreditBalanceCents int64 `db:"credit_balance_cents" json:"credit_balance_cents"`
	IsActive           bool  `db:"is_active" json:"is_active"`
}
