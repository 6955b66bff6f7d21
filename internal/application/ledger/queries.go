package ledger

import (
	"strings"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// Lecturas: todas devuelven copias, nunca punteros al estado interno.

// Customer devuelve el cliente o ErrNotFound.
func (e *Engine) Customer(id string) (*entity.Customer, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	c, ok := e.st.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c.Clone(), nil
}

// Customers lista los clientes en orden de alta.
func (e *Engine) Customers() []*entity.Customer {
	return e.SearchCustomers("")
}

// SearchCustomers filtra por nombre, teléfono o vehículo (sin distinguir mayúsculas).
// Un término vacío devuelve todos.
func (e *Engine) SearchCustomers(term string) []*entity.Customer {
	term = strings.ToLower(strings.TrimSpace(term))

	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*entity.Customer, 0, len(e.st.order))
	for _, id := range e.st.order {
		c := e.st.customers[id]
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Name), term) &&
			!strings.Contains(strings.ToLower(c.Phone), term) &&
			!strings.Contains(strings.ToLower(c.Vehicle), term) {
			continue
		}
		out = append(out, c.Clone())
	}
	return out
}

// Bills lista todas las facturas por ID.
func (e *Engine) Bills() []*entity.Bill {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneBills(e.st.bills)
}

// BillsByCustomer facturas de un cliente; ErrNotFound si el cliente no existe.
func (e *Engine) BillsByCustomer(customerID string) ([]*entity.Bill, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, ok := e.st.customers[customerID]; !ok {
		return nil, domain.ErrNotFound
	}
	return cloneBills(e.st.billsOf(customerID)), nil
}

// Bill devuelve la factura o ErrNotFound.
func (e *Engine) Bill(id int64) (*entity.Bill, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, b := range e.st.bills {
		if b.ID == id {
			return b.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

// Payments lista todos los pagos en orden de registro.
func (e *Engine) Payments() []*entity.Payment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return clonePayments(e.st.payments)
}

// PaymentsByCustomer pagos de un cliente; ErrNotFound si el cliente no existe.
func (e *Engine) PaymentsByCustomer(customerID string) ([]*entity.Payment, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, ok := e.st.customers[customerID]; !ok {
		return nil, domain.ErrNotFound
	}
	return clonePayments(e.st.paymentsOf(customerID)), nil
}

// Snapshot copia consistente de todo el libro.
func (e *Engine) Snapshot() repository.Dataset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.st.snapshot()
}

func cloneBills(in []*entity.Bill) []*entity.Bill {
	out := make([]*entity.Bill, 0, len(in))
	for _, b := range in {
		out = append(out, b.Clone())
	}
	return out
}

func clonePayments(in []*entity.Payment) []*entity.Payment {
	out := make([]*entity.Payment, 0, len(in))
	for _, p := range in {
		out = append(out, p.Clone())
	}
	return out
}
