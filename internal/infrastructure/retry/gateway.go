// Package retry decora un repository.Gateway con timeout por intento y reintentos
// con backoff exponencial. Los fallos agotados se reportan como ErrPersistence.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.Gateway = (*Gateway)(nil)

// Config límites de cada llamada al almacenamiento.
type Config struct {
	Timeout         time.Duration // por intento
	Attempts        int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Gateway decorador con reintentos.
type Gateway struct {
	next repository.Gateway
	cfg  Config
	log  zerolog.Logger
}

// NewGateway envuelve next. Valores no positivos toman los por defecto (5s, 2 intentos).
func NewGateway(next repository.Gateway, cfg Config, log zerolog.Logger) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 2
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 2 * time.Second
	}
	return &Gateway{next: next, cfg: cfg, log: log}
}

func (g *Gateway) ListCustomers(ctx context.Context) ([]*entity.Customer, error) {
	return call(g, ctx, "list_customers", g.next.ListCustomers)
}

func (g *Gateway) ListBills(ctx context.Context) ([]*entity.Bill, error) {
	return call(g, ctx, "list_bills", g.next.ListBills)
}

func (g *Gateway) ListPayments(ctx context.Context) ([]*entity.Payment, error) {
	return call(g, ctx, "list_payments", g.next.ListPayments)
}

func (g *Gateway) UpsertCustomer(ctx context.Context, c *entity.Customer) error {
	return g.exec(ctx, "upsert_customer", func(ctx context.Context) error { return g.next.UpsertCustomer(ctx, c) })
}

func (g *Gateway) InsertBill(ctx context.Context, b *entity.Bill) error {
	return g.exec(ctx, "insert_bill", func(ctx context.Context) error { return g.next.InsertBill(ctx, b) })
}

func (g *Gateway) UpsertPayment(ctx context.Context, p *entity.Payment) error {
	return g.exec(ctx, "upsert_payment", func(ctx context.Context) error { return g.next.UpsertPayment(ctx, p) })
}

func (g *Gateway) DeleteCustomer(ctx context.Context, id string) error {
	return g.exec(ctx, "delete_customer", func(ctx context.Context) error { return g.next.DeleteCustomer(ctx, id) })
}

func (g *Gateway) DeleteBill(ctx context.Context, id int64) error {
	return g.exec(ctx, "delete_bill", func(ctx context.Context) error { return g.next.DeleteBill(ctx, id) })
}

func (g *Gateway) DeletePayment(ctx context.Context, id string) error {
	return g.exec(ctx, "delete_payment", func(ctx context.Context) error { return g.next.DeletePayment(ctx, id) })
}

func (g *Gateway) ReplaceAll(ctx context.Context, ds repository.Dataset) error {
	return g.exec(ctx, "replace_all", func(ctx context.Context) error { return g.next.ReplaceAll(ctx, ds) })
}

// RunInTx reintenta la transacción completa; fn debe poder ejecutarse más de una vez.
// Las operaciones dentro de fn usan el contexto del intento.
func (g *Gateway) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return g.exec(ctx, "tx", func(actx context.Context) error {
		return g.next.RunInTx(actx, func(tx repository.Store) error {
			return fn(boundStore{Store: tx, ctx: actx})
		})
	})
}

func (g *Gateway) exec(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	_, err := call(g, ctx, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func call[T any](g *Gateway, ctx context.Context, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	attempt := 0
	res, err := backoff.Retry(ctx, func() (T, error) {
		attempt++
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, backoff.Permanent(err)
		}
		actx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
		v, err := fn(actx)
		if err != nil && isPermanent(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(g.newBackOff()),
		backoff.WithMaxTries(uint(g.cfg.Attempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			g.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Dur("retry_in", next).Msg("reintentando almacenamiento")
		}),
	)
	if err == nil || isPermanent(err) {
		return res, err
	}
	return res, domain.Persistence(op, err)
}

func (g *Gateway) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.cfg.InitialInterval
	b.MaxInterval = g.cfg.MaxInterval
	return b
}

// isPermanent errores de dominio: reintentar no cambia el resultado.
func isPermanent(err error) bool {
	if errors.Is(err, domain.ErrPersistence) {
		return false
	}
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict)
}

// boundStore fuerza el contexto del intento en cada operación transaccional.
type boundStore struct {
	repository.Store
	ctx context.Context
}

func (s boundStore) ListCustomers(context.Context) ([]*entity.Customer, error) {
	return s.Store.ListCustomers(s.ctx)
}

func (s boundStore) UpsertCustomer(_ context.Context, c *entity.Customer) error {
	return s.Store.UpsertCustomer(s.ctx, c)
}

func (s boundStore) DeleteCustomer(_ context.Context, id string) error {
	return s.Store.DeleteCustomer(s.ctx, id)
}

func (s boundStore) ListBills(context.Context) ([]*entity.Bill, error) {
	return s.Store.ListBills(s.ctx)
}

func (s boundStore) InsertBill(_ context.Context, b *entity.Bill) error {
	return s.Store.InsertBill(s.ctx, b)
}

func (s boundStore) DeleteBill(_ context.Context, id int64) error {
	return s.Store.DeleteBill(s.ctx, id)
}

func (s boundStore) ListPayments(context.Context) ([]*entity.Payment, error) {
	return s.Store.ListPayments(s.ctx)
}

func (s boundStore) UpsertPayment(_ context.Context, p *entity.Payment) error {
	return s.Store.UpsertPayment(s.ctx, p)
}

func (s boundStore) DeletePayment(_ context.Context, id string) error {
	return s.Store.DeletePayment(s.ctx, id)
}

func (s boundStore) ReplaceAll(_ context.Context, ds repository.Dataset) error {
	return s.Store.ReplaceAll(s.ctx, ds)
}
