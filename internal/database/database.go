package database

import (
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// DriverFor picks the sql driver for a DSN: postgres:// and postgresql://
// go through pgx, anything else is treated as a SQLite path (":memory:"
// included).
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}

// Connect opens the database named by dsn.
func Connect(dsn string) *sqlx.DB {
	driver := DriverFor(dsn)

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	if driver == "sqlite" {
		// modernc sqlite allows a single writer; more connections than
		// one also breaks :memory: databases.
		db.SetMaxOpenConns(1)
		db.Exec(`PRAGMA foreign_keys = ON`)
	} else {
		db.SetMaxOpenConns(10)
	}
	return db
}
