package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Run creates the database schema. Table and column names follow the
// original ferretería data model (productos, ventas, pedidos).
func Run(db *sqlx.DB) {
	// SQLite auto-assigns INTEGER PRIMARY KEY from the rowid; PostgreSQL
	// needs an explicit serial for the same behavior.
	itemKey := "INTEGER PRIMARY KEY"
	if db.DriverName() == "pgx" {
		itemKey = "BIGSERIAL PRIMARY KEY"
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL,
			name TEXT NOT NULL,
			share_code TEXT UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS productos (
			id TEXT PRIMARY KEY,
			nombre TEXT NOT NULL,
			categoria TEXT NOT NULL,
			precio NUMERIC NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0,
			minimo INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS ventas (
			id TEXT PRIMARY KEY,
			user_id TEXT REFERENCES users(id),
			fecha TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			total NUMERIC NOT NULL
		);`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS venta_items (
			id %s,
			venta_id TEXT NOT NULL REFERENCES ventas(id),
			producto_id TEXT NOT NULL REFERENCES productos(id),
			nombre TEXT NOT NULL,
			cantidad INTEGER NOT NULL,
			precio_unitario NUMERIC NOT NULL,
			subtotal NUMERIC NOT NULL
		);`, itemKey),
		`CREATE TABLE IF NOT EXISTS pedidos (
			id TEXT PRIMARY KEY,
			user_id TEXT REFERENCES users(id),
			fecha TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			estado TEXT NOT NULL DEFAULT 'pendiente',
			notas TEXT NOT NULL DEFAULT ''
		);`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS pedido_items (
			id %s,
			pedido_id TEXT NOT NULL REFERENCES pedidos(id),
			producto_id TEXT NOT NULL REFERENCES productos(id),
			nombre TEXT NOT NULL,
			cantidad INTEGER NOT NULL
		);`, itemKey),
		`CREATE INDEX IF NOT EXISTS idx_venta_items_venta ON venta_items(venta_id);`,
		`CREATE INDEX IF NOT EXISTS idx_pedido_items_pedido ON pedido_items(pedido_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			logrus.Fatalf("migration failed: %v", err)
		}
	}
}
