// Package memory implementa repository.Gateway en memoria del proceso.
// Sirve para desarrollo, demos y tests; los datos se pierden al reiniciar.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.Gateway = (*Gateway)(nil)

// Gateway almacenamiento en memoria con transacciones por copia.
type Gateway struct {
	mu   sync.Mutex
	data *tables
}

type tables struct {
	customers map[string]*entity.Customer
	bills     map[int64]*entity.Bill
	payments  map[string]*entity.Payment
}

// NewGateway crea un almacenamiento vacío.
func NewGateway() *Gateway {
	return &Gateway{data: &tables{
		customers: make(map[string]*entity.Customer),
		bills:     make(map[int64]*entity.Bill),
		payments:  make(map[string]*entity.Payment),
	}}
}

func (g *Gateway) ListCustomers(ctx context.Context) ([]*entity.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data.ListCustomers(ctx)
}

func (g *Gateway) UpsertCustomer(ctx context.Context, c *entity.Customer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data.UpsertCustomer(ctx, c)
}

func (g *Gateway) DeleteCustomer(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data.DeleteCustomer(ctx, id)
}

func (g *Gateway) ListBills(ctx context.Context) ([]*entity.Bill, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data.ListBills(ctx)
}

func (g *Gateway) InsertBill(ctx context.Context, b *entity.Bill) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data.InsertBill(ctx, b)
}

func (g *Gateway) DeleteBill(ctx context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data.DeleteBill(ctx, id)
}

func (g *Gateway) ListPayments(ctx context.Context) ([]*entity.Payment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data.ListPayments(ctx)
}

func (g *Gateway) UpsertPayment(ctx context.Context, p *entity.Payment) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data.UpsertPayment(ctx, p)
}

func (g *Gateway) DeletePayment(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data.DeletePayment(ctx, id)
}

func (g *Gateway) ReplaceAll(ctx context.Context, ds repository.Dataset) error {
	return g.RunInTx(ctx, func(tx repository.Store) error { return tx.ReplaceAll(ctx, ds) })
}

// RunInTx ejecuta fn sobre una copia de las tablas y la publica solo si fn no falla.
func (g *Gateway) RunInTx(ctx context.Context, fn func(tx repository.Store) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := g.data.clone()
	if err := fn(work); err != nil {
		return err
	}
	g.data = work
	return nil
}

func (t *tables) clone() *tables {
	return &tables{
		customers: maps.Clone(t.customers),
		bills:     maps.Clone(t.bills),
		payments:  maps.Clone(t.payments),
	}
}

// Las entidades se guardan como copias, así que clonar los mapas basta.

func (t *tables) ListCustomers(_ context.Context) ([]*entity.Customer, error) {
	out := make([]*entity.Customer, 0, len(t.customers))
	for _, c := range t.customers {
		out = append(out, c.Clone())
	}
	slices.SortFunc(out, func(a, b *entity.Customer) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (t *tables) UpsertCustomer(_ context.Context, c *entity.Customer) error {
	for id, other := range t.customers {
		if id != c.ID && other.Phone == c.Phone {
			return domain.ErrDuplicatePhone
		}
	}
	t.customers[c.ID] = c.Clone()
	return nil
}

// DeleteCustomer borra en cascada facturas y pagos, como ON DELETE CASCADE.
func (t *tables) DeleteCustomer(_ context.Context, id string) error {
	if _, ok := t.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(t.customers, id)
	maps.DeleteFunc(t.bills, func(_ int64, b *entity.Bill) bool { return b.CustomerID == id })
	maps.DeleteFunc(t.payments, func(_ string, p *entity.Payment) bool { return p.CustomerID == id })
	return nil
}

func (t *tables) ListBills(_ context.Context) ([]*entity.Bill, error) {
	out := make([]*entity.Bill, 0, len(t.bills))
	for _, b := range t.bills {
		out = append(out, b.Clone())
	}
	slices.SortFunc(out, func(a, b *entity.Bill) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (t *tables) InsertBill(_ context.Context, b *entity.Bill) error {
	if _, ok := t.customers[b.CustomerID]; !ok {
		return fmt.Errorf("memory: factura %d referencia cliente inexistente %s", b.ID, b.CustomerID)
	}
	if _, dup := t.bills[b.ID]; dup {
		return fmt.Errorf("memory: la factura %d ya existe", b.ID)
	}
	t.bills[b.ID] = b.Clone()
	return nil
}

func (t *tables) DeleteBill(_ context.Context, id int64) error {
	delete(t.bills, id)
	return nil
}

func (t *tables) ListPayments(_ context.Context) ([]*entity.Payment, error) {
	out := make([]*entity.Payment, 0, len(t.payments))
	for _, p := range t.payments {
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, func(a, b *entity.Payment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (t *tables) UpsertPayment(_ context.Context, p *entity.Payment) error {
	if _, ok := t.customers[p.CustomerID]; !ok {
		return fmt.Errorf("memory: pago %s referencia cliente inexistente %s", p.ID, p.CustomerID)
	}
	t.payments[p.ID] = p.Clone()
	return nil
}

func (t *tables) DeletePayment(_ context.Context, id string) error {
	delete(t.payments, id)
	return nil
}

func (t *tables) ReplaceAll(ctx context.Context, ds repository.Dataset) error {
	clear(t.customers)
	clear(t.bills)
	clear(t.payments)
	for _, c := range ds.Customers {
		if err := t.UpsertCustomer(ctx, c); err != nil {
			return err
		}
	}
	for _, b := range ds.Bills {
		if err := t.InsertBill(ctx, b); err != nil {
			return err
		}
	}
	for _, p := range ds.Payments {
		if err := t.UpsertPayment(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
