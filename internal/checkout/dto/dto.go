package dto

import "github.com/lunapos/checkout-service/internal/model"

type CheckoutResponse struct {
	ReceiptNumber string      `json:"receipt_number"`
	TotalCents    int64       `json:"total_cents"`
	ChangeCents   int64       `json:"change_cents"`
	Sale          *model.Sale `json:"sale"`
}
