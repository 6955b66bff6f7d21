// Package ledger aplica altas de facturas, pagos y ediciones de clientes sobre los
// saldos de crédito, manteniendo el estado en memoria sincronizado con el Gateway.
//
// Cada mutación se valida, se prepara sobre copias, se persiste en una sola
// transacción y solo entonces se publica en memoria. Si la persistencia falla el
// estado en memoria queda intacto y el motor pasa a modo degradado.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/billing"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/money"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// Engine motor del libro de créditos.
type Engine struct {
	mu       sync.RWMutex
	st       *state
	gw       repository.Gateway
	builder  *billing.Builder
	log      zerolog.Logger
	now      func() time.Time
	degraded atomic.Bool
	// loaded protegido por mu; sin carga exitosa no se escribe nada.
	loaded bool
}

// Option configura el Engine.
type Option func(*Engine)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger asigna el logger del componente.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine construye el motor con estado vacío; llamar Load para hidratarlo.
func NewEngine(gw repository.Gateway, builder *billing.Builder, opts ...Option) *Engine {
	if builder == nil {
		builder = billing.NewBuilder(billing.OverpaymentClamp)
	}
	e := &Engine{
		st:      newState(),
		gw:      gw,
		builder: builder,
		log:     zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CustomerInput datos de alta de un cliente.
type CustomerInput struct {
	Name    string
	Phone   string
	Vehicle string
}

// CustomerPatch edición parcial; los campos nil no cambian.
// Credit permite el ajuste manual del saldo.
type CustomerPatch struct {
	Name    *string
	Phone   *string
	Vehicle *string
	Credit  *money.Money
}

// BillInput datos crudos de una factura.
type BillInput struct {
	CustomerID string
	Items      []billing.ItemInput
	Discount   money.Money
	Paid       money.Money
}

// PaymentInput abono posterior de un cliente.
type PaymentInput struct {
	CustomerID string
	Amount     money.Money
	Date       entity.Date
	Notes      string
}

// Reconciliation resultado de recalcular el crédito de un cliente desde su historial.
type Reconciliation struct {
	CustomerID string      `json:"customer_id"`
	Name       string      `json:"name"`
	Stored     money.Money `json:"stored"`
	Computed   money.Money `json:"computed"`
	Matches    bool        `json:"matches"`
	Repaired   bool        `json:"repaired"`
}

// Degraded indica si la última escritura o carga contra el Gateway falló.
func (e *Engine) Degraded() bool { return e.degraded.Load() }

// Load hidrata el estado desde el Gateway. Si falla conserva el último estado
// conocido y marca modo degradado; las mutaciones reintentan la carga hasta que
// una tenga éxito.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load(ctx)
}

// ensureLoaded requiere el lock de escritura.
func (e *Engine) ensureLoaded(ctx context.Context) error {
	if e.loaded {
		return nil
	}
	if err := e.load(ctx); err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			return err
		}
		return domain.Persistence("load", err)
	}
	return nil
}

func (e *Engine) load(ctx context.Context) error {
	ds, err := e.readAll(ctx)
	if err != nil {
		return e.fail("load", err)
	}
	st, err := stateFrom(ds)
	if err != nil {
		e.degraded.Store(true)
		e.log.Error().Err(err).Msg("datos almacenados inconsistentes; se conserva el estado anterior")
		return err
	}
	e.st = st
	e.loaded = true
	e.recovered("load")
	e.log.Info().
		Int("customers", len(ds.Customers)).
		Int("bills", len(ds.Bills)).
		Int("payments", len(ds.Payments)).
		Msg("libro cargado")
	return nil
}

func (e *Engine) readAll(ctx context.Context) (repository.Dataset, error) {
	var ds repository.Dataset
	var err error
	if ds.Customers, err = e.gw.ListCustomers(ctx); err != nil {
		return ds, err
	}
	if ds.Bills, err = e.gw.ListBills(ctx); err != nil {
		return ds, err
	}
	if ds.Payments, err = e.gw.ListPayments(ctx); err != nil {
		return ds, err
	}
	return ds, nil
}

// RegisterCustomer da de alta un cliente con crédito 0.
func (e *Engine) RegisterCustomer(ctx context.Context, in CustomerInput) (*entity.Customer, error) {
	name, phone, vehicle := strings.TrimSpace(in.Name), strings.TrimSpace(in.Phone), strings.TrimSpace(in.Vehicle)
	if name == "" || phone == "" || vehicle == "" {
		return nil, domain.ErrInvalidCustomer
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	if _, dup := e.st.phones[phone]; dup {
		return nil, domain.ErrDuplicatePhone
	}
	now := e.now()
	c := &entity.Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Vehicle:   vehicle,
		Credit:    money.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.persist(ctx, "register_customer", func(tx repository.Store) error {
		return tx.UpsertCustomer(ctx, c)
	}); err != nil {
		return nil, err
	}
	e.st.putCustomer(c)
	e.log.Info().Str("customer_id", c.ID).Msg("cliente registrado")
	return c.Clone(), nil
}

// UpdateCustomer aplica una edición parcial. Un crédito manual distinto del
// historial se detecta después con Reconcile.
func (e *Engine) UpdateCustomer(ctx context.Context, id string, patch CustomerPatch) (*entity.Customer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	cur, ok := e.st.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := cur.Clone()
	for _, f := range []struct {
		in  *string
		out *string
	}{{patch.Name, &next.Name}, {patch.Phone, &next.Phone}, {patch.Vehicle, &next.Vehicle}} {
		if f.in == nil {
			continue
		}
		v := strings.TrimSpace(*f.in)
		if v == "" {
			return nil, domain.ErrInvalidCustomer
		}
		*f.out = v
	}
	if owner, used := e.st.phones[next.Phone]; used && owner != id {
		return nil, domain.ErrDuplicatePhone
	}
	if patch.Credit != nil {
		if patch.Credit.IsNegative() {
			return nil, domain.Validation("el crédito no puede ser negativo")
		}
		next.Credit = patch.Credit.Round2()
	}
	next.UpdatedAt = e.now()

	if err := e.persist(ctx, "update_customer", func(tx repository.Store) error {
		return tx.UpsertCustomer(ctx, next)
	}); err != nil {
		return nil, err
	}
	e.st.putCustomer(next)
	ev := e.log.Info().Str("customer_id", id)
	if patch.Credit != nil && !patch.Credit.Equal(cur.Credit) {
		ev = ev.Str("credit_from", cur.Credit.String()).Str("credit_to", next.Credit.String())
	}
	ev.Msg("cliente actualizado")
	return next.Clone(), nil
}

// DeleteCustomer elimina el cliente con todas sus facturas y pagos. Irreversible.
func (e *Engine) DeleteCustomer(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(ctx); err != nil {
		return err
	}

	if _, ok := e.st.customers[id]; !ok {
		return domain.ErrNotFound
	}
	payments := e.st.paymentsOf(id)
	bills := e.st.billsOf(id)
	if err := e.persist(ctx, "delete_customer", func(tx repository.Store) error {
		for _, p := range payments {
			if err := tx.DeletePayment(ctx, p.ID); err != nil {
				return err
			}
		}
		for _, b := range bills {
			if err := tx.DeleteBill(ctx, b.ID); err != nil {
				return err
			}
		}
		return tx.DeleteCustomer(ctx, id)
	}); err != nil {
		return err
	}
	e.st.removeCustomer(id)
	e.log.Info().
		Str("customer_id", id).
		Int("bills", len(bills)).
		Int("payments", len(payments)).
		Msg("cliente eliminado")
	return nil
}

// CreateBill totaliza la factura, le asigna el siguiente ID y suma su crédito al cliente.
func (e *Engine) CreateBill(ctx context.Context, in BillInput) (*entity.Bill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	cur, ok := e.st.customers[in.CustomerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	draft, err := e.builder.Build(in.Items, in.Discount, in.Paid)
	if err != nil {
		return nil, err
	}

	now := e.now()
	bill := &entity.Bill{
		ID:         e.st.nextBillID,
		CustomerID: cur.ID,
		Items:      draft.Items,
		Subtotal:   draft.Subtotal,
		Discount:   draft.Discount,
		Total:      draft.Total,
		PaidAmount: draft.Paid,
		Credit:     draft.Credit,
		Excess:     draft.Excess,
		Date:       now,
	}
	customer := cur.Clone()
	customer.Credit = customer.Credit.Add(bill.Credit)
	customer.UpdatedAt = now

	if err := e.persist(ctx, "create_bill", func(tx repository.Store) error {
		if err := tx.InsertBill(ctx, bill); err != nil {
			return err
		}
		return tx.UpsertCustomer(ctx, customer)
	}); err != nil {
		return nil, err
	}
	e.st.bills = append(e.st.bills, bill)
	e.st.nextBillID++
	e.st.putCustomer(customer)

	ev := e.log.Info().
		Int64("bill_id", bill.ID).
		Str("customer_id", customer.ID).
		Str("total", bill.Total.String()).
		Str("credit", bill.Credit.String())
	if !bill.Excess.IsZero() {
		ev = ev.Str("excess", bill.Excess.String())
	}
	ev.Msg("factura creada")
	return bill.Clone(), nil
}

// RecordPayment registra un abono y lo descuenta del crédito del cliente.
func (e *Engine) RecordPayment(ctx context.Context, in PaymentInput) (*entity.Payment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	cur, ok := e.st.customers[in.CustomerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	amount := in.Amount.Round2()
	if !amount.IsPositive() || in.Date.IsZero() {
		return nil, domain.ErrInvalidPayment
	}
	if amount.GreaterThan(cur.Credit) {
		return nil, domain.ErrOverpayment
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generar id de pago: %w", err)
	}

	now := e.now()
	payment := &entity.Payment{
		ID:         id.String(),
		CustomerID: cur.ID,
		Amount:     amount,
		Date:       in.Date,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  now,
	}
	customer := cur.Clone()
	customer.Credit = customer.Credit.Sub(amount).ClampZero()
	customer.UpdatedAt = now

	if err := e.persist(ctx, "record_payment", func(tx repository.Store) error {
		if err := tx.UpsertPayment(ctx, payment); err != nil {
			return err
		}
		return tx.UpsertCustomer(ctx, customer)
	}); err != nil {
		return nil, err
	}
	e.st.payments = append(e.st.payments, payment)
	e.st.putCustomer(customer)
	e.log.Info().
		Str("payment_id", payment.ID).
		Str("customer_id", customer.ID).
		Str("amount", amount.String()).
		Msg("pago registrado")
	return payment.Clone(), nil
}

// Reconcile recalcula el crédito como max(Σ crédito de facturas − Σ pagos, 0) y lo
// compara con el guardado. Con repair corrige el saldo cuando difieren.
func (e *Engine) Reconcile(ctx context.Context, customerID string, repair bool) (Reconciliation, error) {
	if !repair {
		e.mu.RLock()
		defer e.mu.RUnlock()
		c, ok := e.st.customers[customerID]
		if !ok {
			return Reconciliation{}, domain.ErrNotFound
		}
		return e.reconcileOf(c), nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(ctx); err != nil {
		return Reconciliation{}, err
	}
	c, ok := e.st.customers[customerID]
	if !ok {
		return Reconciliation{}, domain.ErrNotFound
	}
	return e.repair(ctx, c)
}

// ReconcileAll concilia todos los clientes en orden de alta. Con repair corrige
// cada diferencia; se detiene en el primer fallo de persistencia.
func (e *Engine) ReconcileAll(ctx context.Context, repair bool) ([]Reconciliation, error) {
	if repair {
		e.mu.Lock()
		defer e.mu.Unlock()
		if err := e.ensureLoaded(ctx); err != nil {
			return nil, err
		}
	} else {
		e.mu.RLock()
		defer e.mu.RUnlock()
	}

	out := make([]Reconciliation, 0, len(e.st.order))
	for _, id := range append([]string(nil), e.st.order...) {
		c := e.st.customers[id]
		if !repair {
			out = append(out, e.reconcileOf(c))
			continue
		}
		r, err := e.repair(ctx, c)
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (e *Engine) reconcileOf(c *entity.Customer) Reconciliation {
	billed := money.Zero
	for _, b := range e.st.billsOf(c.ID) {
		billed = billed.Add(b.Credit)
	}
	paid := money.Zero
	for _, p := range e.st.paymentsOf(c.ID) {
		paid = paid.Add(p.Amount)
	}
	computed := billed.Sub(paid).ClampZero()
	return Reconciliation{
		CustomerID: c.ID,
		Name:       c.Name,
		Stored:     c.Credit,
		Computed:   computed,
		Matches:    c.Credit.Equal(computed),
	}
}

// repair requiere el lock de escritura.
func (e *Engine) repair(ctx context.Context, c *entity.Customer) (Reconciliation, error) {
	r := e.reconcileOf(c)
	if r.Matches {
		return r, nil
	}
	fixed := c.Clone()
	fixed.Credit = r.Computed
	fixed.UpdatedAt = e.now()
	if err := e.persist(ctx, "reconcile", func(tx repository.Store) error {
		return tx.UpsertCustomer(ctx, fixed)
	}); err != nil {
		return r, err
	}
	e.st.putCustomer(fixed)
	r.Repaired = true
	e.log.Warn().
		Str("customer_id", c.ID).
		Str("stored", r.Stored.String()).
		Str("computed", r.Computed.String()).
		Msg("crédito corregido por conciliación")
	return r, nil
}

// ReplaceAll sustituye todo el libro por ds (importación de respaldo). El dataset
// se valida completo antes de escribir nada.
func (e *Engine) ReplaceAll(ctx context.Context, ds repository.Dataset) error {
	st, err := stateFrom(ds)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	clean := st.snapshot()
	if err := e.persist(ctx, "replace_all", func(tx repository.Store) error {
		return tx.ReplaceAll(ctx, clean)
	}); err != nil {
		return err
	}
	e.st = st
	e.loaded = true
	e.recovered("replace_all")
	e.log.Info().
		Int("customers", len(clean.Customers)).
		Int("bills", len(clean.Bills)).
		Int("payments", len(clean.Payments)).
		Msg("libro reemplazado")
	return nil
}

// persist ejecuta fn en una transacción del Gateway. Los errores de dominio se
// devuelven tal cual; cualquier otro fallo marca modo degradado y se reporta
// como ErrPersistence.
func (e *Engine) persist(ctx context.Context, op string, fn func(tx repository.Store) error) error {
	err := e.gw.RunInTx(ctx, fn)
	if err == nil {
		e.recovered(op)
		return nil
	}
	if isDomainError(err) {
		return err
	}
	return e.fail(op, err)
}

func (e *Engine) fail(op string, err error) error {
	e.degraded.Store(true)
	e.log.Error().Err(err).Str("op", op).Msg("fallo de persistencia; modo degradado")
	return domain.Persistence(op, err)
}

// recovered solo sale de modo degradado con el estado cargado.
func (e *Engine) recovered(op string) {
	if !e.loaded {
		return
	}
	if e.degraded.CompareAndSwap(true, false) {
		e.log.Info().Str("op", op).Msg("persistencia recuperada")
	}
}

func isDomainError(err error) bool {
	if errors.Is(err, domain.ErrPersistence) {
		return false
	}
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict)
}
