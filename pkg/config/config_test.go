package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.StoragePostgres, cfg.Inventory.Storage)
	assert.Equal(t, 3*time.Second, cfg.Inventory.LockTimeout)
	assert.Equal(t, 3, cfg.Inventory.MaxRetries)
	assert.True(t, cfg.Pricing.DefaultTaxRate.Equal(decimal.RequireFromString("0.18")))
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "MEMORY")
	t.Setenv("LOCK_TIMEOUT_MS", "250")
	t.Setenv("TAX_DEFAULT_RATE", "0.10")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, cfg.Inventory.Storage)
	assert.Equal(t, 250*time.Millisecond, cfg.Inventory.LockTimeout)
	assert.True(t, cfg.Pricing.DefaultTaxRate.Equal(decimal.RequireFromString("0.10")))
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_TasaInvalida(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TAX_DEFAULT_RATE", "dieciocho")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestLoad_StorageDesconocido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "redis")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "ventas", SSLMode: "disable"}

	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/ventas?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

// chdir switches the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
