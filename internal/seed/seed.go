package seed

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Run seeds the catalog and the default accounts. Both steps are no-ops
// when data already exists, so restarting the server never duplicates
// rows.
func Run(db *sqlx.DB, csvPath string) {
	seedProducts(db, csvPath)
	seedUsers(db)
}

type defaultProduct struct {
	nombre    string
	categoria string
	precio    string
	stock     int64
	minimo    int64
}

var defaultProducts = []defaultProduct{
	{"Cemento Portland", "Materiales Básicos", "15.99", 100, 20},
	{"Ladrillos", "Materiales Básicos", "0.50", 1000, 200},
	{`Varilla de Acero 3/8"`, "Acero", "8.99", 200, 50},
}

func seedProducts(db *sqlx.DB, csvPath string) {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM productos`); err != nil {
		logrus.Errorf("unable to inspect catalog: %v", err)
		return
	}
	if count > 0 {
		return
	}

	if loadCatalogCSV(db, csvPath) {
		return
	}

	for _, p := range defaultProducts {
		precio, err := decimal.NewFromString(p.precio)
		if err != nil {
			continue
		}
		if _, err := db.Exec(db.Rebind(`INSERT INTO productos (id, nombre, categoria, precio, stock, minimo) VALUES (?, ?, ?, ?, ?, ?)`),
			uuid.NewString(), p.nombre, p.categoria, precio, p.stock, p.minimo); err != nil {
			logrus.Errorf("unable to seed product %s: %v", p.nombre, err)
		}
	}
	logrus.Infof("seeded catalog with %d default products", len(defaultProducts))
}

// loadCatalogCSV ingests a nombre,categoria,precio,stock,minimo CSV into
// the catalog. Returns false when the file is absent or empty so the
// caller can fall back to the built-in defaults.
func loadCatalogCSV(db *sqlx.DB, csvPath string) bool {
	file, err := os.Open(csvPath)
	if err != nil {
		return false
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		logrus.Errorf("unable to read catalog header: %v", err)
		return false
	}

	tx, err := db.Beginx()
	if err != nil {
		logrus.Errorf("unable to start catalog transaction: %v", err)
		return false
	}
	stmt, err := tx.Preparex(tx.Rebind(`INSERT INTO productos (id, nombre, categoria, precio, stock, minimo) VALUES (?, ?, ?, ?, ?, ?)`))
	if err != nil {
		logrus.Errorf("unable to prepare catalog insert: %v", err)
		tx.Rollback()
		return false
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logrus.Errorf("unable to read catalog row: %v", err)
			continue
		}
		if len(record) < 5 {
			continue
		}
		nombre := strings.TrimSpace(record[0])
		categoria := strings.TrimSpace(record[1])
		if nombre == "" {
			continue
		}
		precio, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil || precio.IsNegative() {
			continue
		}
		stock, _ := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		minimo, _ := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)

		if _, err := stmt.Exec(uuid.NewString(), nombre, categoria, precio, stock, minimo); err != nil {
			logrus.Errorf("unable to insert product %s: %v", nombre, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		logrus.Errorf("unable to commit catalog seed: %v", err)
		return false
	}
	if rows == 0 {
		return false
	}
	logrus.Infof("seeded catalog with %d rows from %s", rows, csvPath)
	return true
}

func seedUsers(db *sqlx.DB) {
	defaults := []struct {
		username string
		password string
		role     string
		name     string
	}{
		{"admin", "admin", "admin", "Administrador"},
		{"inv", "inv", "supplier", "Proveedor"},
	}

	for _, u := range defaults {
		var exists bool
		if err := db.Get(&exists, db.Rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`), u.username); err != nil {
			logrus.Errorf("unable to inspect users: %v", err)
			return
		}
		if exists {
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			logrus.Errorf("unable to hash default password: %v", err)
			return
		}
		if _, err := db.Exec(db.Rebind(`INSERT INTO users (id, username, password, role, name) VALUES (?, ?, ?, ?, ?)`),
			uuid.NewString(), u.username, hashed, u.role, u.name); err != nil {
			logrus.Errorf("unable to seed user %s: %v", u.username, err)
		} else {
			logrus.Infof("seeded default %s account %q", u.role, u.username)
		}
	}
}
