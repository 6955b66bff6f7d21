package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/storage"
	"github.com/jhoicas/Cartera-api/pkg/config"
)

func TestOpen_Memoria(t *testing.T) {
	cfg := &config.Config{Ledger: config.LedgerConfig{Storage: storage.Memory, GatewayTimeout: time.Second, GatewayAttempts: 1}}
	gw, closeFn, err := storage.Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()

	customers, err := gw.ListCustomers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Ledger: config.LedgerConfig{Storage: storage.SQLite},
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "cartera.db")},
	}
	gw, closeFn, err := storage.Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()

	now := time.Now().UTC()
	require.NoError(t, gw.UpsertCustomer(ctx, &entity.Customer{ID: "c1", Name: "Ram", Phone: "1", CreatedAt: now, UpdatedAt: now}))
	customers, err := gw.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func TestOpen_Desconocido(t *testing.T) {
	cfg := &config.Config{Ledger: config.LedgerConfig{Storage: "mongo"}}
	_, closeFn, err := storage.Open(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
	assert.NotNil(t, closeFn)
}
