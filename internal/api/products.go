package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Brandon-bit8/LaloA/domain"
)

// Catalog handlers

type productRequest struct {
	Nombre    string          `json:"nombre"`
	Categoria string          `json:"categoria"`
	Precio    decimal.Decimal `json:"precio"`
	Stock     int64           `json:"stock"`
	Minimo    int64           `json:"minimo"`
}

func (req *productRequest) validate() string {
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.Categoria = strings.TrimSpace(req.Categoria)
	switch {
	case req.Nombre == "":
		return "nombre is required"
	case req.Categoria == "":
		return "categoria is required"
	case req.Precio.IsNegative():
		return "precio must not be negative"
	case req.Stock < 0:
		return "stock must not be negative"
	case req.Minimo < 0:
		return "minimo must not be negative"
	}
	return ""
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var products []domain.Product
	if err := h.db.Select(&products, `SELECT id, nombre, categoria, precio, stock, minimo, created_at, updated_at FROM productos ORDER BY nombre`); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "admin") {
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.NewString()
	if _, err := h.db.Exec(h.db.Rebind(`INSERT INTO productos (id, nombre, categoria, precio, stock, minimo) VALUES (?, ?, ?, ?, ?, ?)`),
		id, req.Nombre, req.Categoria, req.Precio, req.Stock, req.Minimo); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create product")
		return
	}
	respondJSON(w, http.StatusCreated, domain.Product{
		ID:       id,
		Name:     req.Nombre,
		Category: req.Categoria,
		Price:    req.Precio,
		Stock:    req.Stock,
		Min:      req.Minimo,
	})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, "admin") {
		return
	}
	id := chi.URLParam(r, "id")

	var exists bool
	if err := h.db.Get(&exists, h.db.Rebind(`SELECT EXISTS(SELECT 1 FROM productos WHERE id = ?)`), id); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load product")
		return
	}
	if !exists {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := h.db.Exec(h.db.Rebind(`UPDATE productos SET nombre = ?, categoria = ?, precio = ?, stock = ?, minimo = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`),
		req.Nombre, req.Categoria, req.Precio, req.Stock, req.Minimo, id); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update product")
		return
	}

	var product domain.Product
	if err := h.db.Get(&product, h.db.Rebind(`SELECT id, nombre, categoria, precio, stock, minimo, created_at, updated_at FROM productos WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handler) lowStockProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.loadLowStock()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list low stock products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) loadLowStock() ([]domain.Product, error) {
	var products []domain.Product
	err := h.db.Select(&products, `SELECT id, nombre, categoria, precio, stock, minimo FROM productos WHERE stock <= minimo ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
