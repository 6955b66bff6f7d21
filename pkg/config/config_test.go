package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Ledger.Storage)
	assert.Equal(t, "clamp", cfg.Ledger.BillOverpayment)
	assert.Equal(t, 5*time.Second, cfg.Ledger.GatewayTimeout)
	assert.Equal(t, 2, cfg.Ledger.GatewayAttempts)
	assert.Equal(t, 3, cfg.Auth.MaxAttempts)
	assert.Equal(t, 15, cfg.Auth.LockoutMinutes)
	assert.Equal(t, "0 2 * * *", cfg.Scheduler.ReconcileSpec)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Sobrescrituras(t *testing.T) {
	v := viper.New()
	v.Set("LEDGER_STORAGE", "SQLite")
	v.Set("LEDGER_GATEWAY_TIMEOUT", "250ms")
	v.Set("LEDGER_GATEWAY_ATTEMPTS", "0")
	v.Set("HTTP_PORT", "9090")
	v.Set("SCHEDULER_RECONCILE_REPAIR", "true")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Ledger.Storage)
	assert.Equal(t, 250*time.Millisecond, cfg.Ledger.GatewayTimeout)
	assert.Equal(t, 1, cfg.Ledger.GatewayAttempts)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Scheduler.Repair)
}

func TestFromViper_TimeoutEnSegundos(t *testing.T) {
	v := viper.New()
	v.Set("LEDGER_GATEWAY_TIMEOUT", "3")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Ledger.GatewayTimeout)
}

func TestFromViper_Invalidos(t *testing.T) {
	v := viper.New()
	v.Set("LEDGER_STORAGE", "mongo")
	_, err := fromViper(v)
	require.Error(t, err)

	v = viper.New()
	v.Set("LEDGER_GATEWAY_TIMEOUT", "pronto")
	_, err = fromViper(v)
	require.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "cartera", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/cartera?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestAppConfig_Location(t *testing.T) {
	loc, err := AppConfig{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = AppConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	_, err = AppConfig{Timezone: "Marte/Olympus"}.Location()
	assert.Error(t, err)
}
