package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the checkout engine and both ledgers.
// Business-rule failures that need structured detail get their own types
// below so handlers can render actionable messages.
var (
	ErrEmptyCart        = errors.New("cart must not be empty")
	ErrInvalidInput     = errors.New("invalid input")
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInactive  = errors.New("product is inactive")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrCustomerInactive = errors.New("customer is inactive")
	ErrCustomerRequired = errors.New("credit payment requires a customer")
	ErrOverpayment      = errors.New("payment exceeds outstanding balance")
	// ErrConflict means a concurrent checkout won the race on stock or
	// balance; the caller should refresh the cart and resubmit.
	ErrConflict = errors.New("concurrent update conflict, please retry")
)

type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

type InsufficientPaymentError struct {
	TotalCents int64
	PaidCents  int64
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: total %d, paid %d", e.TotalCents, e.PaidCents)
}

type CreditLimitExceededError struct {
	LimitCents   int64
	BalanceCents int64
	TotalCents   int64
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded: limit %d, balance %d, sale total %d",
		e.LimitCents, e.BalanceCents, e.TotalCents)
}
