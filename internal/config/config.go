package config

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Config holds application configuration values.
type Config struct {
	Secret      string
	DatabaseDSN string
	HTTPPort    string
}

// Load reads configuration from environment variables with reasonable
// defaults. Credentials are never embedded in source: point DATABASE_DSN
// at a postgres:// URL for a hosted database, or leave it unset to use a
// local SQLite file.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		logrus.Warn("SECRET is not set; signing tokens with an insecure development default")
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	if _, err := strconv.Atoi(port); err != nil {
		logrus.Warnf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "ferreteria.db"
	}

	return Config{Secret: secret, DatabaseDSN: dsn, HTTPPort: port}
}
