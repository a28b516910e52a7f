package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Brandon-bit8/LaloA/domain"
	"github.com/Brandon-bit8/LaloA/internal/report"
)

// Reports

type dailySalesRow struct {
	Fecha  string          `db:"fecha" json:"fecha"`
	Ventas decimal.Decimal `db:"ventas" json:"ventas"`
}

// dailySales is the revenue-per-day series behind the dashboard chart.
// Totals are folded in Go with decimals; summing REAL columns in SQL
// would reintroduce float dust into money.
func (h *Handler) dailySales(w http.ResponseWriter, r *http.Request) {
	var sales []struct {
		Fecha string          `db:"fecha"`
		Total decimal.Decimal `db:"total"`
	}
	if err := h.db.Select(&sales, `SELECT DATE(fecha) AS fecha, total FROM ventas ORDER BY fecha`); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch daily sales")
		return
	}

	rows := []dailySalesRow{}
	index := make(map[string]int)
	for _, sale := range sales {
		i, ok := index[sale.Fecha]
		if !ok {
			index[sale.Fecha] = len(rows)
			rows = append(rows, dailySalesRow{Fecha: sale.Fecha})
			i = len(rows) - 1
		}
		rows[i].Ventas = rows[i].Ventas.Add(sale.Total)
	}
	respondJSON(w, http.StatusOK, rows)
}

type categorySalesRow struct {
	Categoria string `db:"categoria" json:"categoria"`
	Total     int64  `db:"total" json:"total"`
}

// salesByCategory counts units sold per product category.
func (h *Handler) salesByCategory(w http.ResponseWriter, r *http.Request) {
	var rows []categorySalesRow
	query := `SELECT p.categoria AS categoria, SUM(vi.cantidad) AS total
	          FROM venta_items vi
	          JOIN productos p ON p.id = vi.producto_id
	          GROUP BY p.categoria
	          ORDER BY p.categoria`
	if err := h.db.Select(&rows, query); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch category sales")
		return
	}
	if rows == nil {
		rows = []categorySalesRow{}
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) lowStockReport(w http.ResponseWriter, r *http.Request) {
	products, err := h.loadLowStock()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch low stock report")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) inventoryPDF(w http.ResponseWriter, r *http.Request) {
	var products []domain.Product
	if err := h.db.Select(&products, `SELECT id, nombre, categoria, precio, stock, minimo FROM productos ORDER BY nombre`); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load inventory")
		return
	}

	pdf, err := report.Inventory(products)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to render inventory report")
		return
	}
	servePDF(w, "reporte-inventario.pdf", pdf)
}

func (h *Handler) salesPDF(w http.ResponseWriter, r *http.Request) {
	sales, err := h.loadSalesWithItems()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load sales")
		return
	}

	rows := make([]report.SaleRow, len(sales))
	for i, sale := range sales {
		summary := make([]string, len(sale.Items))
		for j, item := range sale.Items {
			summary[j] = item.Name + " (" + strconv.FormatInt(item.Quantity, 10) + ")"
		}
		rows[i] = report.SaleRow{
			Date:     sale.Date,
			Products: strings.Join(summary, ", "),
			Total:    sale.Total,
		}
	}

	pdf, err := report.Sales(rows)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to render sales report")
		return
	}
	servePDF(w, "reporte-ventas.pdf", pdf)
}

func servePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
