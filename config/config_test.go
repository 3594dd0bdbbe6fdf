package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("RECONCILE_INTERVAL", "")
	t.Setenv("MAX_STAY_NIGHTS", "")
	t.Setenv("HOTEL_TIMEZONE", "")

	cfg := Load()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 5*time.Minute, cfg.ReconcileInterval)
	assert.Equal(t, 365, cfg.MaxStayNights)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("RECONCILE_INTERVAL", "90s")
	t.Setenv("MAX_STAY_NIGHTS", "30")
	t.Setenv("HOTEL_TIMEZONE", "Asia/Riyadh")

	cfg := Load()

	assert.Equal(t, 90*time.Second, cfg.ReconcileInterval)
	assert.Equal(t, 30, cfg.MaxStayNights)
	assert.Equal(t, "Asia/Riyadh", cfg.Location.String())
	assert.Contains(t, cfg.DSN(), "host=db.internal port=6543")
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("TX_MAX_RETRIES", "many")
	t.Setenv("RECONCILE_LOCK_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 3, cfg.TxMaxRetries)
	assert.Equal(t, 4*time.Minute, cfg.ReconcileLockTTL)
}
