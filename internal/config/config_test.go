package config

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SECRET", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("DATABASE_DSN", "")

	cfg := Load()
	assert.Equal(t, "dev_secret", cfg.Secret)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "ferreteria.db", cfg.DatabaseDSN)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_DSN", "postgres://user:pw@localhost/ferreteria")

	cfg := Load()
	assert.Equal(t, "s3cr3t", cfg.Secret)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "postgres://user:pw@localhost/ferreteria", cfg.DatabaseDSN)
}

func TestLoadWarnsOnDefaultSecret(t *testing.T) {
	t.Setenv("SECRET", "")
	hook := logtest.NewGlobal()
	defer hook.Reset()

	Load()

	warned := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && strings.Contains(entry.Message, "SECRET") {
			warned = true
		}
	}
	assert.True(t, warned, "falling back to the development secret should warn")
}

func TestLoadRejectsNonNumericPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
}
