package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"nombre" json:"nombre"`
	Category  string          `db:"categoria" json:"categoria"`
	Price     decimal.Decimal `db:"precio" json:"precio"`
	Stock     int64           `db:"stock" json:"stock"`
	Min       int64           `db:"minimo" json:"minimo"`
	CreatedAt string          `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt string          `db:"updated_at" json:"updated_at,omitempty"`
}

// LowStock reports whether the product sits at or below its reorder threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.Min
}
