package ledger

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// state repositorio en memoria del libro. Solo el Engine lo toca y siempre bajo su mutex.
type state struct {
	customers  map[string]*entity.Customer
	order      []string          // IDs de clientes en orden de alta
	phones     map[string]string // teléfono -> ID de cliente
	bills      []*entity.Bill    // en orden de ID
	payments   []*entity.Payment // en orden de registro
	nextBillID int64
}

func newState() *state {
	return &state{
		customers:  make(map[string]*entity.Customer),
		phones:     make(map[string]string),
		nextBillID: 1,
	}
}

// stateFrom construye el estado a partir de un dataset completo, verificando su integridad:
// IDs y teléfonos únicos, referencias existentes, importes no negativos, facturas
// con líneas y totales coherentes, pagos positivos.
func stateFrom(ds repository.Dataset) (*state, error) {
	s := newState()
	for i, c := range ds.Customers {
		if c == nil || strings.TrimSpace(c.ID) == "" {
			return nil, integrityErr("cliente %d sin ID", i)
		}
		if _, dup := s.customers[c.ID]; dup {
			return nil, integrityErr("cliente %s duplicado", c.ID)
		}
		if strings.TrimSpace(c.Phone) == "" {
			return nil, integrityErr("cliente %s sin teléfono", c.ID)
		}
		if other, dup := s.phones[c.Phone]; dup {
			return nil, integrityErr("teléfono %s repetido en %s y %s", c.Phone, other, c.ID)
		}
		if c.Credit.IsNegative() {
			return nil, integrityErr("cliente %s con crédito negativo", c.ID)
		}
		cp := c.Clone()
		s.customers[cp.ID] = cp
		s.order = append(s.order, cp.ID)
		s.phones[cp.Phone] = cp.ID
	}

	billIDs := make(map[int64]struct{}, len(ds.Bills))
	for i, b := range ds.Bills {
		if b == nil || b.ID <= 0 {
			return nil, integrityErr("factura %d sin ID válido", i)
		}
		if _, dup := billIDs[b.ID]; dup {
			return nil, integrityErr("factura %d duplicada", b.ID)
		}
		if _, ok := s.customers[b.CustomerID]; !ok {
			return nil, integrityErr("factura %d referencia cliente inexistente %s", b.ID, b.CustomerID)
		}
		for _, m := range []struct {
			name string
			neg  bool
		}{
			{"subtotal", b.Subtotal.IsNegative()},
			{"discount", b.Discount.IsNegative()},
			{"total", b.Total.IsNegative()},
			{"paid_amount", b.PaidAmount.IsNegative()},
			{"credit", b.Credit.IsNegative()},
			{"excess", b.Excess.IsNegative()},
		} {
			if m.neg {
				return nil, integrityErr("factura %d con %s negativo", b.ID, m.name)
			}
		}
		if len(b.Items) == 0 {
			return nil, integrityErr("factura %d sin líneas", b.ID)
		}
		if b.Discount.GreaterThan(b.Subtotal) {
			return nil, integrityErr("factura %d con descuento %s mayor al subtotal %s", b.ID, b.Discount, b.Subtotal)
		}
		if want := b.Subtotal.Sub(b.Discount); !b.Total.Equal(want) {
			return nil, integrityErr("factura %d con total %s, se esperaba %s", b.ID, b.Total, want)
		}
		if want := b.Total.Sub(b.PaidAmount).ClampZero(); !b.Credit.Equal(want) {
			return nil, integrityErr("factura %d con crédito %s, se esperaba %s", b.ID, b.Credit, want)
		}
		billIDs[b.ID] = struct{}{}
		s.bills = append(s.bills, b.Clone())
		if b.ID >= s.nextBillID {
			s.nextBillID = b.ID + 1
		}
	}
	sortBills(s.bills)

	paymentIDs := make(map[string]struct{}, len(ds.Payments))
	for i, p := range ds.Payments {
		if p == nil || strings.TrimSpace(p.ID) == "" {
			return nil, integrityErr("pago %d sin ID", i)
		}
		if _, dup := paymentIDs[p.ID]; dup {
			return nil, integrityErr("pago %s duplicado", p.ID)
		}
		if _, ok := s.customers[p.CustomerID]; !ok {
			return nil, integrityErr("pago %s referencia cliente inexistente %s", p.ID, p.CustomerID)
		}
		if !p.Amount.IsPositive() {
			return nil, integrityErr("pago %s con monto no positivo", p.ID)
		}
		paymentIDs[p.ID] = struct{}{}
		s.payments = append(s.payments, p.Clone())
	}
	return s, nil
}

func integrityErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidBackup, fmt.Sprintf(format, args...))
}

func sortBills(bills []*entity.Bill) {
	slices.SortFunc(bills, func(a, b *entity.Bill) int { return cmp.Compare(a.ID, b.ID) })
}

func (s *state) snapshot() repository.Dataset {
	ds := repository.Dataset{
		Customers: make([]*entity.Customer, 0, len(s.order)),
		Bills:     make([]*entity.Bill, 0, len(s.bills)),
		Payments:  make([]*entity.Payment, 0, len(s.payments)),
	}
	for _, id := range s.order {
		ds.Customers = append(ds.Customers, s.customers[id].Clone())
	}
	for _, b := range s.bills {
		ds.Bills = append(ds.Bills, b.Clone())
	}
	for _, p := range s.payments {
		ds.Payments = append(ds.Payments, p.Clone())
	}
	return ds
}

func (s *state) putCustomer(c *entity.Customer) {
	if prev, ok := s.customers[c.ID]; ok {
		if prev.Phone != c.Phone {
			delete(s.phones, prev.Phone)
		}
	} else {
		s.order = append(s.order, c.ID)
	}
	s.customers[c.ID] = c
	s.phones[c.Phone] = c.ID
}

func (s *state) removeCustomer(id string) {
	c, ok := s.customers[id]
	if !ok {
		return
	}
	delete(s.phones, c.Phone)
	delete(s.customers, id)
	s.order = removeString(s.order, id)

	bills := s.bills[:0]
	for _, b := range s.bills {
		if b.CustomerID != id {
			bills = append(bills, b)
		}
	}
	clear(s.bills[len(bills):])
	s.bills = bills

	payments := s.payments[:0]
	for _, p := range s.payments {
		if p.CustomerID != id {
			payments = append(payments, p)
		}
	}
	clear(s.payments[len(payments):])
	s.payments = payments
}

func removeString(list []string, v string) []string {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

func (s *state) billsOf(customerID string) []*entity.Bill {
	var out []*entity.Bill
	for _, b := range s.bills {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out
}

func (s *state) paymentsOf(customerID string) []*entity.Payment {
	var out []*entity.Payment
	for _, p := range s.payments {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out
}
