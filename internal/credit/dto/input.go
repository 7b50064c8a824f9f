package dto

type PostPaymentInput struct {
	CustomerID  string `json:"-"`
	AmountCents int64  `json:"amount_cents"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	ActorID     string `json:"-"`
}

// PostAdjustmentInput corrects a customer's balance outside the normal
// purchase/payment flow. AmountCents is signed.
type PostAdjustmentInput struct {
	CustomerID  string `json:"-"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
	ActorID     string `json:"-"`
}
