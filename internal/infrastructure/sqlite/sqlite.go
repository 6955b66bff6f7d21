// Package sqlite implementa repository.Gateway sobre un archivo SQLite
// (driver modernc, sin CGO). Pensado para una sola instalación local.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.Gateway = (*Gateway)(nil)

// querier lo común entre *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Gateway persistencia en SQLite. Fuera de RunInTx cada operación usa la conexión directa.
type Gateway struct {
	*store
	db *sql.DB
}

// Open abre (o crea) la base en path, activa llaves foráneas y aplica el esquema.
func Open(path string) (*Gateway, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de la base: %w", err)
		}
	}
	// foreign_keys es por conexión: se fija en el DSN para que aplique a todas.
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("abrir base: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("aplicar esquema: %w", err)
	}
	return &Gateway{store: &store{q: db}, db: db}, nil
}

// Close cierra la base.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// ReplaceAll reemplaza todo el contenido en una sola transacción.
func (g *Gateway) ReplaceAll(ctx context.Context, ds repository.Dataset) error {
	return g.RunInTx(ctx, func(tx repository.Store) error {
		return tx.ReplaceAll(ctx, ds)
	})
}

// RunInTx ejecuta fn con repos atados a una transacción; Commit solo si fn no falla.
func (g *Gateway) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&store{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// timeLayout ancho fijo para que el orden de texto coincida con el cronológico.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha almacenada inválida %q: %w", s, err)
	}
	return t, nil
}
