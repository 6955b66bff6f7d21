package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.Gateway = (*Gateway)(nil)

// Store agrupa los tres repositorios sobre un mismo Querier (pool o tx).
type Store struct {
	*CustomerRepo
	*BillRepo
	*PaymentRepo
	q Querier
}

func newStore(q Querier) *Store {
	return &Store{
		CustomerRepo: NewCustomerRepository(q),
		BillRepo:     NewBillRepository(q),
		PaymentRepo:  NewPaymentRepository(q),
		q:            q,
	}
}

// ReplaceAll vacía las tablas y carga ds. Debe ejecutarse dentro de RunInTx.
func (s *Store) ReplaceAll(ctx context.Context, ds repository.Dataset) error {
	for _, table := range []string{"payments", "bills", "customers"} {
		if _, err := s.q.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, c := range ds.Customers {
		if err := s.UpsertCustomer(ctx, c); err != nil {
			return err
		}
	}
	for _, b := range ds.Bills {
		if err := s.InsertBill(ctx, b); err != nil {
			return err
		}
	}
	for _, p := range ds.Payments {
		if err := s.UpsertPayment(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Gateway persistencia en PostgreSQL. Fuera de RunInTx cada operación usa el pool.
type Gateway struct {
	*Store
	pool *pgxpool.Pool
}

// NewGateway construye el gateway con el pool.
func NewGateway(pool *pgxpool.Pool) *Gateway {
	return &Gateway{Store: newStore(pool), pool: pool}
}

// ReplaceAll reemplaza todo el contenido en una sola transacción.
func (g *Gateway) ReplaceAll(ctx context.Context, ds repository.Dataset) error {
	return g.RunInTx(ctx, func(tx repository.Store) error {
		return tx.ReplaceAll(ctx, ds)
	})
}

// RunInTx inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (g *Gateway) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
