package model

import "time"

type MovementDirection string

const (
	DirectionIn  MovementDirection = "in"
	DirectionOut MovementDirection = "out"
)

func (d MovementDirection) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

type MovementReason string

const (
	ReasonPurchase   MovementReason = "purchase"
	ReasonSale       MovementReason = "sale"
	ReasonAdjustment MovementReason = "adjustment"
	ReasonDamaged    MovementReason = "damaged"
	ReasonTheft      MovementReason = "theft"
	ReasonReturn     MovementReason = "return"
)

func (r MovementReason) Valid() bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonAdjustment, ReasonDamaged, ReasonTheft, ReasonReturn:
		return true
	}
	return false
}

// StockMovement is one immutable entry in the stock ledger. The product's
// cached quantity is always the fold of its movements; QuantityBefore and
// QuantityAfter are snapshots taken inside the same transaction that updated
// the cache.
type StockMovement struct {
	ID             string            `db:"id" json:"id"`
	ProductID      string            `db:"product_id" json:"product_id"`
	Direction      MovementDirection `db:"direction" json:"direction"`
	Quantity       int               `db:"quantity" json:"quantity"`
	Reason         MovementReason    `db:"reason" json:"reason"`
	Note           *string           `db:"note" json:"note"`
	QuantityBefore int               `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int               `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string           `db:"reference_type" json:"reference_type"`
	ReferenceID    *string           `db:"reference_id" json:"reference_id"`
	ActorID        *string           `db:"actor_id" json:"actor_id"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
}

// Delta returns the signed quantity change this movement applied.
func (m *StockMovement) Delta() int {
	if m.Direction == DirectionOut {
		return -m.Quantity
	}
	return m.Quantity
}
