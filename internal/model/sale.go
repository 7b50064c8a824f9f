package model

import "time"

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCard    PaymentMethod = "card"
	PaymentEWallet PaymentMethod = "e_wallet"
	PaymentCredit  PaymentMethod = "credit"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentEWallet, PaymentCredit:
		return true
	}
	return false
}

// RequiresCreditPosting reports whether a sale paid with this method must
// post a purchase entry to the customer's credit ledger. cash, card and
// e_wallet all settle immediately and behave identically here.
func (m PaymentMethod) RequiresCreditPosting() bool {
	return m == PaymentCredit
}

// Sale is an immutable record of a committed checkout. Corrections are made
// via new stock or credit adjustments, never by editing a sale.
type Sale struct {
	ID              string        `db:"id" json:"id"`
	ReceiptNumber   string        `db:"receipt_number" json:"receipt_number"`
	SubtotalCents   int64         `db:"subtotal_cents" json:"subtotal_cents"`
	DiscountCents   int64         `db:"discount_cents" json:"discount_cents"`
	TotalCents      int64         `db:"total_cents" json:"total_cents"`
	PaymentMethod   PaymentMethod `db:"payment_method" json:"payment_method"`
	AmountPaidCents int64         `db:"amount_paid_cents" json:"amount_paid_cents"`
	ChangeCents     int64         `db:"change_cents" json:"change_cents"`
	CustomerID      *string       `db:"customer_id" json:"customer_id"`
	CashierID       string        `db:"cashier_id" json:"cashier_id"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	Items           []SaleItem    `db:"-" json:"items"`
}

// SaleItem is one sale line. LineNo preserves the cart order the cashier
// rang the items in, which is the order they print on the receipt.
type SaleItem struct {
	ID             string `db:"id" json:"id"`
	SaleID         string `db:"sale_id" json:"sale_id"`
	LineNo         int    `db:"line_no" json:"line_no"`
	ProductID      string `db:"product_id" json:"product_id"`
	Quantity       int    `db:"quantity" json:"quantity"`
	UnitPriceCents int64  `db:"unit_price_cents" json:"unit_price_cents"`
	DiscountCents  int64  `db:"discount_cents" json:"discount_cents"`
	SubtotalCents  int64  `db:"subtotal_cents" json:"subtotal_cents"`
}
