package dto

import "time"

type SaleFilters struct {
	CustomerID    string
	PaymentMethod string
	CashierID     string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PageSize      int
}
