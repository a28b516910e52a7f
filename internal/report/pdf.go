// Package report renders the on-demand PDF exports: an inventory
// snapshot and the sales ledger, both as a titled, date-stamped table.
package report

import (
	"bytes"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/Brandon-bit8/LaloA/domain"
)

// SaleRow is one line of the sales ledger export.
type SaleRow struct {
	Date     string
	Products string
	Total    decimal.Decimal
}

// Inventory renders the catalog snapshot: one row per product with its
// price, stock level and a Stock Bajo flag at or below the threshold.
func Inventory(products []domain.Product) ([]byte, error) {
	pdf, tr := newDoc("Reporte de Inventario")

	widths := []float64{55, 40, 25, 20, 20, 30}
	header(pdf, tr, widths, []string{"Producto", "Categoría", "Precio", "Stock", "Mínimo", "Estado"})

	fill := false
	for _, p := range products {
		estado := "OK"
		if p.LowStock() {
			estado = "Stock Bajo"
		}
		row(pdf, tr, widths, fill, []string{
			p.Name,
			p.Category,
			"$" + p.Price.StringFixed(2),
			strconv.FormatInt(p.Stock, 10),
			strconv.FormatInt(p.Min, 10),
			estado,
		})
		fill = !fill
	}

	return output(pdf)
}

// Sales renders the sales ledger with a closing grand-total line.
func Sales(sales []SaleRow) ([]byte, error) {
	pdf, tr := newDoc("Reporte de Ventas")

	widths := []float64{35, 120, 35}
	header(pdf, tr, widths, []string{"Fecha", "Productos", "Total"})

	total := decimal.Zero
	fill := false
	for _, s := range sales {
		row(pdf, tr, widths, fill, []string{s.Date, s.Products, "$" + s.Total.StringFixed(2)})
		total = total.Add(s.Total)
		fill = !fill
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, tr("Total de Ventas: $"+total.StringFixed(2)))

	return output(pdf)
}

func newDoc(title string) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, tr(title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr("Fecha: "+time.Now().Format("02/01/2006")))
	pdf.Ln(12)

	return pdf, tr
}

func header(pdf *gofpdf.Fpdf, tr func(string) string, widths []float64, cols []string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(37, 99, 235)
	pdf.SetTextColor(255, 255, 255)
	for i, col := range cols {
		pdf.CellFormat(widths[i], 8, tr(col), "", 0, "L", true, 0, "")
	}
	pdf.Ln(8)
}

func row(pdf *gofpdf.Fpdf, tr func(string) string, widths []float64, fill bool, cells []string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(235, 240, 250)
	pdf.SetTextColor(0, 0, 0)
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 7, tr(cell), "", 0, "L", fill, 0, "")
	}
	pdf.Ln(7)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
