// Package storage elige el almacenamiento según LEDGER_STORAGE y lo envuelve con reintentos.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/retry"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Cartera-api/pkg/config"
)

// Storage backends soportados.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
	Memory   = "memory"
)

// Open abre el backend configurado. closeFn libera conexiones; siempre es no nil.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.Gateway, func(), error) {
	var (
		gw      repository.Gateway
		closeFn = func() {}
	)
	switch cfg.Ledger.Storage {
	case Postgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, closeFn, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, closeFn, err
		}
		gw, closeFn = postgres.NewGateway(pool), pool.Close
	case SQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, closeFn, err
		}
		gw, closeFn = db, func() { _ = db.Close() }
	case Memory:
		gw = memory.NewGateway()
	default:
		return nil, closeFn, fmt.Errorf("storage: backend desconocido %q", cfg.Ledger.Storage)
	}

	log.Info().Str("storage", cfg.Ledger.Storage).Msg("almacenamiento listo")
	return retry.NewGateway(gw, retry.Config{
		Timeout:  cfg.Ledger.GatewayTimeout,
		Attempts: cfg.Ledger.GatewayAttempts,
	}, log), closeFn, nil
}
