package report

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brandon-bit8/LaloA/domain"
)

func TestInventory(t *testing.T) {
	products := []domain.Product{
		{Name: "Cemento Portland", Category: "Materiales Básicos", Price: decimal.RequireFromString("15.99"), Stock: 100, Min: 20},
		{Name: "Tornillos", Category: "Fijaciones", Price: decimal.RequireFromString("0.10"), Stock: 5, Min: 50},
	}

	data, err := Inventory(products)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Greater(t, len(data), 500)
}

func TestInventoryEmptyCatalog(t *testing.T) {
	data, err := Inventory(nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestSales(t *testing.T) {
	rows := []SaleRow{
		{Date: "2024-03-01 10:00:00", Products: "Cemento Portland (10)", Total: decimal.RequireFromString("159.90")},
		{Date: "2024-03-02 16:30:00", Products: "Ladrillos (100), Varilla (4)", Total: decimal.RequireFromString("85.96")},
	}

	data, err := Sales(rows)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	assert.Greater(t, len(data), 500)
}

func TestSalesManyRowsPaginate(t *testing.T) {
	rows := make([]SaleRow, 80)
	for i := range rows {
		rows[i] = SaleRow{Date: "2024-03-01", Products: "Cemento Portland (1)", Total: decimal.RequireFromString("15.99")}
	}

	data, err := Sales(rows)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
