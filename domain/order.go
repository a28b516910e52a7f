package domain

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pendiente"
	StatusApproved  OrderStatus = "aprobado"
	StatusRejected  OrderStatus = "rechazado"
	StatusDelivered OrderStatus = "entregado"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusDelivered:
		return true
	}
	return false
}

// CanTransition reports whether an order in state s may move to state to.
// pendiente may become aprobado or rechazado; aprobado may become
// entregado; rechazado and entregado are terminal.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	switch s {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected
	case StatusApproved:
		return to == StatusDelivered
	}
	return false
}

type Order struct {
	ID     string      `db:"id" json:"id"`
	UserID *string     `db:"user_id" json:"user_id,omitempty"`
	Date   string      `db:"fecha" json:"fecha"`
	Status OrderStatus `db:"estado" json:"estado"`
	Notes  string      `db:"notas" json:"notas,omitempty"`
}

type OrderItem struct {
	ID        int64  `db:"id" json:"id"`
	OrderID   string `db:"pedido_id" json:"pedido_id"`
	ProductID string `db:"producto_id" json:"producto_id"`
	Name      string `db:"nombre" json:"nombre"`
	Quantity  int64  `db:"cantidad" json:"cantidad"`
}
