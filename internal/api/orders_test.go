package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brandon-bit8/LaloA/domain"
)

type orderResult struct {
	ID     string             `json:"id"`
	Estado domain.OrderStatus `json:"estado"`
	Items  []domain.OrderItem `json:"items"`
}

func placeOrder(t *testing.T, h *Handler, token string, items []map[string]any) orderResult {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/pedidos", token, map[string]any{
		"items": items, "notas": "",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var order orderResult
	decodeBody(t, rec, &order)
	return order
}

func setStatus(t *testing.T, h *Handler, token, id string, estado domain.OrderStatus) int {
	t.Helper()
	rec := doRequest(t, h, http.MethodPut, "/pedidos/"+id, token, map[string]any{
		"estado": estado,
	})
	return rec.Code
}

func TestCreateOrder(t *testing.T) {
	h := newTestHandler(t)
	_, adminToken := newUser(t, h, "admin", "admin", "admin")
	_, supplierToken := newUser(t, h, "inv", "inv", "supplier")
	cemento := newProduct(t, h, "Cemento", "Materiales Básicos", "15.99", 100, 20)

	t.Run("only the admin may order", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/pedidos", supplierToken, map[string]any{
			"items": []map[string]any{{"producto_id": cemento, "cantidad": 5}},
			"notas": "",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("starts pending with snapshot lines", func(t *testing.T) {
		order := placeOrder(t, h, adminToken, []map[string]any{{"producto_id": cemento, "cantidad": 5}})
		assert.Equal(t, domain.StatusPending, order.Estado)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "Cemento", order.Items[0].Name)
		assert.EqualValues(t, 5, order.Items[0].Quantity)
	})

	t.Run("empty order", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/pedidos", adminToken, map[string]any{
			"items": []map[string]any{}, "notas": "",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/pedidos", adminToken, map[string]any{
			"items": []map[string]any{{"producto_id": "no-such", "cantidad": 1}}, "notas": "",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOrderLifecycle(t *testing.T) {
	h := newTestHandler(t)
	_, adminToken := newUser(t, h, "admin", "admin", "admin")
	_, supplierToken := newUser(t, h, "inv", "inv", "supplier")
	p1 := newProduct(t, h, "Varilla", "Acero", "8.99", 10, 5)
	p2 := newProduct(t, h, "Ladrillos", "Materiales Básicos", "0.50", 5, 2)

	order := placeOrder(t, h, adminToken, []map[string]any{
		{"producto_id": p1, "cantidad": 5},
		{"producto_id": p2, "cantidad": 3},
	})

	t.Run("admin may not transition", func(t *testing.T) {
		code := setStatus(t, h, adminToken, order.ID, domain.StatusApproved)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("pending cannot jump to delivered", func(t *testing.T) {
		code := setStatus(t, h, supplierToken, order.ID, domain.StatusDelivered)
		assert.Equal(t, http.StatusConflict, code)
		assert.EqualValues(t, 10, stockOf(t, h, p1))
	})

	t.Run("approve then deliver restocks each line", func(t *testing.T) {
		code := setStatus(t, h, supplierToken, order.ID, domain.StatusApproved)
		require.Equal(t, http.StatusOK, code)
		// Approval alone moves no stock.
		assert.EqualValues(t, 10, stockOf(t, h, p1))
		assert.EqualValues(t, 5, stockOf(t, h, p2))

		code = setStatus(t, h, supplierToken, order.ID, domain.StatusDelivered)
		require.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 15, stockOf(t, h, p1))
		assert.EqualValues(t, 8, stockOf(t, h, p2))
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		for _, next := range []domain.OrderStatus{domain.StatusPending, domain.StatusApproved, domain.StatusRejected, domain.StatusDelivered} {
			code := setStatus(t, h, supplierToken, order.ID, next)
			assert.Equal(t, http.StatusConflict, code, string(next))
		}
		// No double restock from the repeated attempts.
		assert.EqualValues(t, 15, stockOf(t, h, p1))
	})
}

func TestOrderRejection(t *testing.T) {
	h := newTestHandler(t)
	_, adminToken := newUser(t, h, "admin", "admin", "admin")
	_, supplierToken := newUser(t, h, "inv", "inv", "supplier")
	p := newProduct(t, h, "Cemento", "Materiales Básicos", "15.99", 100, 20)

	order := placeOrder(t, h, adminToken, []map[string]any{{"producto_id": p, "cantidad": 7}})

	rec := doRequest(t, h, http.MethodPut, "/pedidos/"+order.ID, supplierToken, map[string]any{
		"estado": domain.StatusRejected, "notas": "sin existencias del lado del proveedor",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 100, stockOf(t, h, p))

	t.Run("rejected is terminal", func(t *testing.T) {
		code := setStatus(t, h, supplierToken, order.ID, domain.StatusApproved)
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("notes were recorded", func(t *testing.T) {
		var notas string
		require.NoError(t, h.db.Get(&notas, `SELECT notas FROM pedidos WHERE id = ?`, order.ID))
		assert.Equal(t, "sin existencias del lado del proveedor", notas)
	})
}

// A concurrent request can change the row between the state check and the
// flip. The UPDATE is conditional on the state that was checked, so the
// losing side affects zero rows instead of re-running the delivery
// restock.
func TestStatusFlipGuardedOnCheckedState(t *testing.T) {
	h := newTestHandler(t)
	_, adminToken := newUser(t, h, "admin", "admin", "admin")
	_, supplierToken := newUser(t, h, "inv", "inv", "supplier")
	p := newProduct(t, h, "Cemento", "Materiales Básicos", "15.99", 100, 20)

	order := placeOrder(t, h, adminToken, []map[string]any{{"producto_id": p, "cantidad": 5}})
	require.Equal(t, http.StatusOK, setStatus(t, h, supplierToken, order.ID, domain.StatusApproved))

	// The losing side of a race: its precondition (pendiente) no longer
	// holds by the time its UPDATE runs.
	res, err := h.db.Exec(`UPDATE pedidos SET estado = ? WHERE id = ? AND estado = ?`,
		domain.StatusRejected, order.ID, domain.StatusPending)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Zero(t, n)

	var estado domain.OrderStatus
	require.NoError(t, h.db.Get(&estado, `SELECT estado FROM pedidos WHERE id = ?`, order.ID))
	assert.Equal(t, domain.StatusApproved, estado)
}

func TestUpdateOrderValidation(t *testing.T) {
	h := newTestHandler(t)
	_, supplierToken := newUser(t, h, "inv", "inv", "supplier")

	t.Run("unknown status", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPut, "/pedidos/whatever", supplierToken, map[string]any{
			"estado": "enviado",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPut, "/pedidos/no-such", supplierToken, map[string]any{
			"estado": domain.StatusApproved,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListOrders(t *testing.T) {
	h := newTestHandler(t)
	_, adminToken := newUser(t, h, "admin", "admin", "admin")
	_, supplierToken := newUser(t, h, "inv", "inv", "supplier")
	_, clientToken := newUser(t, h, "cliente", "pw", "client")
	p := newProduct(t, h, "Cemento", "Materiales Básicos", "15.99", 100, 20)

	first := placeOrder(t, h, adminToken, []map[string]any{{"producto_id": p, "cantidad": 1}})
	second := placeOrder(t, h, adminToken, []map[string]any{{"producto_id": p, "cantidad": 2}})

	setStatus(t, h, supplierToken, first.ID, domain.StatusApproved)
	setStatus(t, h, supplierToken, first.ID, domain.StatusDelivered)
	setStatus(t, h, supplierToken, second.ID, domain.StatusRejected)

	t.Run("admin sees everything", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/pedidos", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var orders []orderResult
		decodeBody(t, rec, &orders)
		assert.Len(t, orders, 2)
	})

	t.Run("supplier does not see delivered orders", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/pedidos", supplierToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var orders []orderResult
		decodeBody(t, rec, &orders)
		require.Len(t, orders, 1)
		assert.Equal(t, second.ID, orders[0].ID)
	})

	t.Run("clients are forbidden", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/pedidos", clientToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
