package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Brandon-bit8/LaloA/domain"
)

// Sales handlers

type saleItemRequest struct {
	ProductoID string `json:"producto_id"`
	Cantidad   int64  `json:"cantidad"`
}

type saleRequest struct {
	Items []saleItemRequest `json:"items"`
}

type saleResponse struct {
	domain.Sale
	Items []domain.SaleItem `json:"items"`
}

// createSale commits a cart in one transaction. Stock is decremented with
// a conditional UPDATE (stock >= cantidad) checked via RowsAffected, so
// two concurrent sales can never drive a product negative, and a failed
// line rolls back the whole sale. Prices come from the catalog at commit
// time, never from the client.
func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "admin", "client") {
		return
	}

	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "la venta no tiene productos")
		return
	}

	tx, err := h.db.Beginx()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer tx.Rollback()

	saleID := uuid.NewString()
	total := decimal.Zero
	items := make([]domain.SaleItem, 0, len(req.Items))

	for _, item := range req.Items {
		if item.Cantidad <= 0 {
			respondError(w, http.StatusBadRequest, "cantidad must be greater than zero")
			return
		}

		var product domain.Product
		if err := tx.Get(&product, tx.Rebind(`SELECT id, nombre, categoria, precio, stock, minimo FROM productos WHERE id = ?`), item.ProductoID); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("producto %s no encontrado", item.ProductoID))
			return
		}

		res, err := tx.Exec(tx.Rebind(`UPDATE productos SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND stock >= ?`),
			item.Cantidad, item.ProductoID, item.Cantidad)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "unable to update stock")
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var remaining int64
			_ = tx.Get(&remaining, tx.Rebind(`SELECT stock FROM productos WHERE id = ?`), item.ProductoID)
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("stock insuficiente para %s: solo hay %d unidades disponibles", product.Name, remaining))
			return
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(item.Cantidad))
		total = total.Add(subtotal)
		items = append(items, domain.SaleItem{
			SaleID:    saleID,
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Cantidad,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		})
	}

	uid := userIDFromContext(r)
	if _, err := tx.Exec(tx.Rebind(`INSERT INTO ventas (id, user_id, total) VALUES (?, ?, ?)`), saleID, uid, total); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create sale record")
		return
	}

	for _, it := range items {
		if _, err := tx.Exec(tx.Rebind(`INSERT INTO venta_items (venta_id, producto_id, nombre, cantidad, precio_unitario, subtotal) VALUES (?, ?, ?, ?, ?, ?)`),
			saleID, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.Subtotal); err != nil {
			respondError(w, http.StatusInternalServerError, "unable to add sale items")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to finalize sale")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":    saleID,
		"total": total,
		"items": items,
	})
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.loadSalesWithItems()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch sales")
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) loadSalesWithItems() ([]saleResponse, error) {
	var sales []domain.Sale
	if err := h.db.Select(&sales, `SELECT id, user_id, fecha, total FROM ventas ORDER BY fecha DESC, id`); err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return []saleResponse{}, nil
	}

	ids := make([]string, len(sales))
	for i, sale := range sales {
		ids[i] = sale.ID
	}

	itemsQuery, itemsArgs, err := sqlx.In(`SELECT id, venta_id, producto_id, nombre, cantidad, precio_unitario, subtotal FROM venta_items WHERE venta_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	itemsQuery = h.db.Rebind(itemsQuery)

	var rows []domain.SaleItem
	if err := h.db.Select(&rows, itemsQuery, itemsArgs...); err != nil {
		return nil, err
	}
	itemsBySale := make(map[string][]domain.SaleItem)
	for _, row := range rows {
		itemsBySale[row.SaleID] = append(itemsBySale[row.SaleID], row)
	}

	report := make([]saleResponse, len(sales))
	for i, sale := range sales {
		items := itemsBySale[sale.ID]
		if items == nil {
			items = []domain.SaleItem{}
		}
		report[i] = saleResponse{Sale: sale, Items: items}
	}
	return report, nil
}
