package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Brandon-bit8/LaloA/domain"
)

// Purchase order handlers. Orders flow admin -> supplier: the admin files
// them, the supplier moves them through the lifecycle, and delivery puts
// the goods into stock.

type orderItemRequest struct {
	ProductoID string `json:"producto_id"`
	Cantidad   int64  `json:"cantidad"`
}

type orderRequest struct {
	Items []orderItemRequest `json:"items"`
	Notas string             `json:"notas"`
}

type orderResponse struct {
	domain.Order
	Items []domain.OrderItem `json:"items"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "admin") {
		return
	}

	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "el pedido no tiene productos")
		return
	}

	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback()

	orderID := uuid.NewString()
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Cantidad <= 0 {
			respondError(w, http.StatusBadRequest, "cantidad must be greater than zero")
			return
		}
		var nombre string
		if err := tx.Get(&nombre, tx.Rebind(`SELECT nombre FROM productos WHERE id = ?`), item.ProductoID); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("producto %s no encontrado", item.ProductoID))
			return
		}
		items = append(items, domain.OrderItem{
			OrderID:   orderID,
			ProductID: item.ProductoID,
			Name:      nombre,
			Quantity:  item.Cantidad,
		})
	}

	uid := userIDFromContext(r)
	if _, err := tx.Exec(tx.Rebind(`INSERT INTO pedidos (id, user_id, estado, notas) VALUES (?, ?, ?, ?)`),
		orderID, uid, domain.StatusPending, strings.TrimSpace(req.Notas)); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create order")
		return
	}
	for _, it := range items {
		if _, err := tx.Exec(tx.Rebind(`INSERT INTO pedido_items (pedido_id, producto_id, nombre, cantidad) VALUES (?, ?, ?, ?)`),
			orderID, it.ProductID, it.Name, it.Quantity); err != nil {
			respondError(w, http.StatusInternalServerError, "unable to add order items")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to finalize order")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":     orderID,
		"estado": domain.StatusPending,
		"items":  items,
	})
}

// listOrders is role-filtered: the admin sees the full history, the
// supplier only what still needs action (everything not yet delivered),
// clients nothing at all.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	query := `SELECT id, user_id, fecha, estado, notas FROM pedidos`
	var args []any
	switch roleFromContext(r) {
	case "admin":
	case "supplier":
		query += ` WHERE estado != ?`
		args = append(args, domain.StatusDelivered)
	default:
		respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	query += ` ORDER BY fecha DESC, id`

	var orders []domain.Order
	if err := h.db.Select(&orders, h.db.Rebind(query), args...); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch orders")
		return
	}
	if len(orders) == 0 {
		respondJSON(w, http.StatusOK, []orderResponse{})
		return
	}

	ids := make([]string, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}
	itemsQuery, itemsArgs, err := sqlx.In(`SELECT id, pedido_id, producto_id, nombre, cantidad FROM pedido_items WHERE pedido_id IN (?) ORDER BY id`, ids)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to prepare order items query")
		return
	}
	itemsQuery = h.db.Rebind(itemsQuery)

	var rows []domain.OrderItem
	if err := h.db.Select(&rows, itemsQuery, itemsArgs...); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load order items")
		return
	}
	itemsByOrder := make(map[string][]domain.OrderItem)
	for _, row := range rows {
		itemsByOrder[row.OrderID] = append(itemsByOrder[row.OrderID], row)
	}

	report := make([]orderResponse, len(orders))
	for i, order := range orders {
		items := itemsByOrder[order.ID]
		if items == nil {
			items = []domain.OrderItem{}
		}
		report[i] = orderResponse{Order: order, Items: items}
	}
	respondJSON(w, http.StatusOK, report)
}

type orderUpdateRequest struct {
	Estado domain.OrderStatus `json:"estado"`
	Notas  *string            `json:"notas"`
}

// updateOrder advances the order state machine. Only the supplier may
// transition, only along pendiente -> {aprobado, rechazado} and
// aprobado -> entregado; everything else is a 409 that leaves the row
// untouched. Delivery increments each line's stock inside the same
// transaction as the status flip.
func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "supplier") {
		return
	}
	id := chi.URLParam(r, "id")

	var req orderUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Estado.Valid() {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("estado %q desconocido", req.Estado))
		return
	}

	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback()

	var current domain.OrderStatus
	if err := tx.Get(&current, tx.Rebind(`SELECT estado FROM pedidos WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load order")
		return
	}
	if !current.CanTransition(req.Estado) {
		respondError(w, http.StatusConflict, fmt.Sprintf("transición inválida: %s → %s", current, req.Estado))
		return
	}

	// The flip is guarded on the state we just validated, so a concurrent
	// update loses here instead of re-running the delivery restock.
	var res sql.Result
	if req.Notas != nil {
		res, err = tx.Exec(tx.Rebind(`UPDATE pedidos SET estado = ?, notas = ? WHERE id = ? AND estado = ?`),
			req.Estado, strings.TrimSpace(*req.Notas), id, current)
	} else {
		res, err = tx.Exec(tx.Rebind(`UPDATE pedidos SET estado = ? WHERE id = ? AND estado = ?`), req.Estado, id, current)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update order")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(w, http.StatusConflict, "el pedido ya cambió de estado")
		return
	}

	if req.Estado == domain.StatusDelivered {
		var items []domain.OrderItem
		if err := tx.Select(&items, tx.Rebind(`SELECT id, pedido_id, producto_id, nombre, cantidad FROM pedido_items WHERE pedido_id = ?`), id); err != nil {
			respondError(w, http.StatusInternalServerError, "unable to load order items")
			return
		}
		for _, item := range items {
			if _, err := tx.Exec(tx.Rebind(`UPDATE productos SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`),
				item.Quantity, item.ProductID); err != nil {
				respondError(w, http.StatusInternalServerError, "unable to restock delivered items")
				return
			}
		}
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to finalize order update")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "estado": req.Estado})
}
