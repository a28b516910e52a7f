package domain

import "github.com/shopspring/decimal"

type Sale struct {
	ID     string          `db:"id" json:"id"`
	UserID *string         `db:"user_id" json:"user_id,omitempty"`
	Date   string          `db:"fecha" json:"fecha"`
	Total  decimal.Decimal `db:"total" json:"total"`
}

// SaleItem snapshots the product at sale time; later price or name edits
// never rewrite history.
type SaleItem struct {
	ID        int64           `db:"id" json:"id"`
	SaleID    string          `db:"venta_id" json:"venta_id"`
	ProductID string          `db:"producto_id" json:"producto_id"`
	Name      string          `db:"nombre" json:"nombre"`
	Quantity  int64           `db:"cantidad" json:"cantidad"`
	UnitPrice decimal.Decimal `db:"precio_unitario" json:"precio_unitario"`
	Subtotal  decimal.Decimal `db:"subtotal" json:"subtotal"`
}
