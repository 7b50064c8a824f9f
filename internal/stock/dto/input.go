package dto

import "github.com/lunapos/checkout-service/internal/model"

type PostMovementInput struct {
	ProductID     string                  `json:"product_id"`
	Direction     model.MovementDirection `json:"direction"`
	Quantity      int                     `json:"quantity"`
	Reason        model.MovementReason    `json:"reason"`
	Note          string                  `json:"note"`
	ReferenceType string                  `json:"reference_type"`
	ReferenceID   string                  `json:"reference_id"`
	ActorID       string                  `json:"-"`
}
