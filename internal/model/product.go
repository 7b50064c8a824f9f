package model

type Product struct {
	BaseModel
	SKU        string  `db:"sku" json:"sku"`
	Barcode    *string `db:"barcode" json:"barcode"` // Nullable
	Name       string  `db:"name" json:"name"`
	PriceCents int64   `db:"price_cents" json:"price_cents"`
	CostCents  int64   `db:"cost_cents" json:"cost_cents"`
	Quantity   int     `db:"quantity" json:"quantity"`
	MinStock   int     `db:"min_stock" json:"min_stock"`
	IsActive   bool    `db:"is_active" json:"is_active"`
}

// LowOnStock reports whether the cached quantity has reached the reorder threshold.
func (p *Product) LowOnStock() bool {
	return p.MinStock > 0 && p.Quantity <= p.MinStock
}
