package dto

import "github.com/lunapos/checkout-service/internal/model"

type CartLineInput struct {
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	DiscountCents int64  `json:"discount_cents"`
}

type CheckoutInput struct {
	Cart            []CartLineInput     `json:"cart"`
	PaymentMethod   model.PaymentMethod `json:"payment_method"`
	DiscountCents   int64               `json:"discount_cents"`
	AmountPaidCents int64               `json:"amount_paid_cents"`
	CustomerID      *string             `json:"customer_id"`
	CashierID       string              `json:"-"`
}
