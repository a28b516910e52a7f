package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Brandon-bit8/LaloA/internal/database"
	"github.com/Brandon-bit8/LaloA/internal/migrations"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db := database.Connect(":memory:")
	t.Cleanup(func() { db.Close() })
	migrations.Run(db)
	return New(db, "test-secret")
}

// newUser inserts a user directly and returns its id and a valid token.
func newUser(t *testing.T, h *Handler, username, password, role string) (string, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	id := uuid.NewString()
	_, err = h.db.Exec(`INSERT INTO users (id, username, password, role, name) VALUES (?, ?, ?, ?, ?)`,
		id, username, hashed, role, username)
	require.NoError(t, err)
	token, err := h.generateToken(id, role, username)
	require.NoError(t, err)
	return id, token
}

func newProduct(t *testing.T, h *Handler, nombre, categoria, precio string, stock, minimo int64) string {
	t.Helper()
	p, err := decimal.NewFromString(precio)
	require.NoError(t, err)
	id := uuid.NewString()
	_, err = h.db.Exec(`INSERT INTO productos (id, nombre, categoria, precio, stock, minimo) VALUES (?, ?, ?, ?, ?, ?)`,
		id, nombre, categoria, p, stock, minimo)
	require.NoError(t, err)
	return id
}

func stockOf(t *testing.T, h *Handler, productID string) int64 {
	t.Helper()
	var stock int64
	require.NoError(t, h.db.Get(&stock, `SELECT stock FROM productos WHERE id = ?`, productID))
	return stock
}

func doRequest(t *testing.T, h *Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload map[string]string
	decodeBody(t, rec, &payload)
	return payload["error"]
}
