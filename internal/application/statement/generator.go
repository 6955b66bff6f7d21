// Package statement genera reportes de solo lectura sobre un snapshot del libro:
// estado de cuenta, resumen de créditos, series mensuales y cifras generales.
package statement

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/money"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// Source origen de datos del generador (el motor del libro).
type Source interface {
	Snapshot() repository.Dataset
	Degraded() bool
}

// Generator calcula reportes bajo demanda; no guarda estado propio.
type Generator struct {
	src Source
	loc *time.Location
}

// Option configura el Generator.
type Option func(*Generator)

// WithLocation zona usada para ubicar la fecha de las facturas en un mes.
// Las fechas de pago son de calendario y no se convierten.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// NewGenerator construye el generador.
func NewGenerator(src Source, opts ...Option) *Generator {
	g := &Generator{src: src, loc: time.Local}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CustomerStatement movimientos del cliente en orden cronológico con saldo acumulado.
// Facturas y pagos del mismo día: primero las facturas, luego los pagos por hora de registro.
func (g *Generator) CustomerStatement(customerID string) (*dto.CustomerStatement, error) {
	ds := g.src.Snapshot()
	var customer *entity.Customer
	for _, c := range ds.Customers {
		if c.ID == customerID {
			customer = c
			break
		}
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	type row struct {
		day   entity.Date
		kind  int // 0 factura, 1 pago
		at    time.Time
		entry dto.StatementEntry
	}
	var rows []row
	billed, paid := money.Zero, money.Zero
	for _, b := range ds.Bills {
		if b.CustomerID != customerID {
			continue
		}
		billed = billed.Add(b.Total)
		paid = paid.Add(b.PaidAmount)
		local := b.Date.In(g.loc)
		rows = append(rows, row{
			day:  entity.DateOf(local),
			kind: 0,
			at:   b.Date,
			entry: dto.StatementEntry{
				Type:      dto.EntryBill,
				Reference: strconv.FormatInt(b.ID, 10),
				Date:      local,
				Total:     b.Total,
				Paid:      b.PaidAmount,
				Amount:    b.Credit,
			},
		})
	}
	for _, p := range ds.Payments {
		if p.CustomerID != customerID {
			continue
		}
		paid = paid.Add(p.Amount)
		y, m, d := p.Date.Time().Date()
		rows = append(rows, row{
			day:  p.Date,
			kind: 1,
			at:   p.CreatedAt,
			entry: dto.StatementEntry{
				Type:      dto.EntryPayment,
				Reference: p.ID,
				Date:      time.Date(y, m, d, 0, 0, 0, 0, g.loc),
				Total:     p.Amount,
				Paid:      p.Amount,
				Amount:    p.Amount,
				Notes:     p.Notes,
			},
		})
	}
	slices.SortStableFunc(rows, func(a, b row) int {
		if c := a.day.Compare(b.day); c != 0 {
			return c
		}
		if c := cmp.Compare(a.kind, b.kind); c != 0 {
			return c
		}
		return a.at.Compare(b.at)
	})

	entries := make([]dto.StatementEntry, 0, len(rows))
	balance := money.Zero
	for _, r := range rows {
		if r.kind == 0 {
			balance = balance.Add(r.entry.Amount)
		} else {
			balance = balance.Sub(r.entry.Amount).ClampZero()
		}
		r.entry.Balance = balance
		entries = append(entries, r.entry)
	}

	return &dto.CustomerStatement{
		CustomerID:  customer.ID,
		Name:        customer.Name,
		Phone:       customer.Phone,
		Vehicle:     customer.Vehicle,
		Entries:     entries,
		TotalBilled: billed,
		TotalPaid:   paid,
		Outstanding: customer.Credit,
	}, nil
}

// CreditSummary total pendiente y deudores (crédito > 0) de mayor a menor;
// empates por nombre y luego por ID.
func (g *Generator) CreditSummary() dto.CreditSummary {
	return creditSummary(g.src.Snapshot())
}

func creditSummary(ds repository.Dataset) dto.CreditSummary {
	out := dto.CreditSummary{TotalOutstanding: money.Zero, Debtors: []dto.Debtor{}}
	for _, c := range ds.Customers {
		out.TotalOutstanding = out.TotalOutstanding.Add(c.Credit)
		if !c.Credit.IsPositive() {
			continue
		}
		out.Debtors = append(out.Debtors, dto.Debtor{
			CustomerID: c.ID,
			Name:       c.Name,
			Phone:      c.Phone,
			Vehicle:    c.Vehicle,
			Credit:     c.Credit,
		})
	}
	slices.SortFunc(out.Debtors, func(a, b dto.Debtor) int {
		if c := b.Credit.Cmp(a.Credit); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.CustomerID, b.CustomerID)
	})
	out.DebtorCount = len(out.Debtors)
	return out
}

// TopDebtors los n mayores deudores (lista de recordatorios / vencidos).
func (g *Generator) TopDebtors(n int) []dto.Debtor {
	debtors := g.CreditSummary().Debtors
	if n >= 0 && n < len(debtors) {
		debtors = debtors[:n]
	}
	return debtors
}

// MonthlyRevenue total facturado por mes del año (12 meses, cero si no hay datos).
func (g *Generator) MonthlyRevenue(year int) dto.MonthlySeries {
	s := newSeries(year)
	for _, b := range g.src.Snapshot().Bills {
		local := b.Date.In(g.loc)
		if local.Year() == year {
			s.add(local.Month(), b.Total)
		}
	}
	return s.MonthlySeries
}

// MonthlyPayments total de abonos posteriores por mes del año según su fecha.
func (g *Generator) MonthlyPayments(year int) dto.MonthlySeries {
	s := newSeries(year)
	for _, p := range g.src.Snapshot().Payments {
		if p.Date.Year() == year {
			s.add(p.Date.Month(), p.Amount)
		}
	}
	return s.MonthlySeries
}

type series struct{ dto.MonthlySeries }

func newSeries(year int) *series {
	s := &series{dto.MonthlySeries{Year: year, Total: money.Zero, Months: make([]dto.MonthBucket, 12)}}
	for i := range s.Months {
		m := time.Month(i + 1)
		s.Months[i] = dto.MonthBucket{Month: int(m), Label: m.String()[:3], Total: money.Zero}
	}
	return s
}

func (s *series) add(m time.Month, amount money.Money) {
	b := &s.Months[m-1]
	b.Total = b.Total.Add(amount)
	b.Count++
	s.Total = s.Total.Add(amount)
}

// PaymentRate round(100 × (Σ pagado en facturas + Σ abonos) / Σ total facturado);
// 0 sin facturas. Puede superar 100 si hubo excedentes.
func (g *Generator) PaymentRate() int64 {
	return paymentRate(g.src.Snapshot())
}

func paymentRate(ds repository.Dataset) int64 {
	billed, collected := totals(ds)
	return money.Percent(collected, billed)
}

// totals Σ total facturado y Σ cobrado (pagado en facturas + abonos).
func totals(ds repository.Dataset) (billed, collected money.Money) {
	billed, collected = money.Zero, money.Zero
	for _, b := range ds.Bills {
		billed = billed.Add(b.Total)
		collected = collected.Add(b.PaidAmount)
	}
	for _, p := range ds.Payments {
		collected = collected.Add(p.Amount)
	}
	return billed, collected
}

// BestMonth mes (de cualquier año) con mayor facturación; ante empate gana el
// más antiguo. Found=false si no hay facturas.
func (g *Generator) BestMonth() dto.BestMonthResponse {
	return g.bestMonth(g.src.Snapshot())
}

func (g *Generator) bestMonth(ds repository.Dataset) dto.BestMonthResponse {
	type key struct {
		year  int
		month time.Month
	}
	sums := make(map[key]money.Money)
	for _, b := range ds.Bills {
		local := b.Date.In(g.loc)
		k := key{local.Year(), local.Month()}
		sums[k] = sums[k].Add(b.Total)
	}
	if len(sums) == 0 {
		return dto.BestMonthResponse{Total: money.Zero}
	}
	keys := make([]key, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		if c := cmp.Compare(a.year, b.year); c != 0 {
			return c
		}
		return cmp.Compare(a.month, b.month)
	})
	best := keys[0]
	for _, k := range keys[1:] {
		if sums[k].GreaterThan(sums[best]) {
			best = k
		}
	}
	return dto.BestMonthResponse{
		Found: true,
		Label: fmt.Sprintf("%s %d", best.month, best.year),
		Year:  best.year,
		Month: int(best.month),
		Total: sums[best],
	}
}

// Summary cifras generales del negocio; el año en curso se toma de now.
func (g *Generator) Summary(now time.Time) dto.AnalyticsSummary {
	ds := g.src.Snapshot()
	year := now.In(g.loc).Year()
	billed, collected := totals(ds)

	out := dto.AnalyticsSummary{
		TotalRevenue:   billed,
		AverageBill:    money.Avg(billed, len(ds.Bills)),
		TotalPayments:  collected,
		YearRevenue:    money.Zero,
		YearPayments:   money.Zero,
		TotalCredit:    money.Zero,
		TotalCustomers: len(ds.Customers),
		TotalBills:     len(ds.Bills),
		PaymentRate:    money.Percent(collected, billed),
		BestMonth:      g.bestMonth(ds),
		Degraded:       g.src.Degraded(),
	}
	active := make(map[string]struct{})
	for _, b := range ds.Bills {
		active[b.CustomerID] = struct{}{}
		if b.Date.In(g.loc).Year() == year {
			out.YearRevenue = out.YearRevenue.Add(b.Total)
			out.YearPayments = out.YearPayments.Add(b.PaidAmount)
		}
	}
	for _, p := range ds.Payments {
		if p.Date.Year() == year {
			out.YearPayments = out.YearPayments.Add(p.Amount)
		}
	}
	for _, c := range ds.Customers {
		out.TotalCredit = out.TotalCredit.Add(c.Credit)
	}
	out.ActiveCustomers = len(active)
	return out
}

// MonthlyReport facturación y cobros del mes indicado.
func (g *Generator) MonthlyReport(year, month int) (dto.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return dto.MonthlyReport{}, domain.Validation("mes fuera de rango: %d", month)
	}
	m := time.Month(month)
	out := dto.MonthlyReport{
		Year:      year,
		Month:     month,
		Label:     fmt.Sprintf("%s %d", m, year),
		Revenue:   money.Zero,
		BillPaid:  money.Zero,
		Payments:  money.Zero,
		NewCredit: money.Zero,
	}
	ds := g.src.Snapshot()
	for _, b := range ds.Bills {
		local := b.Date.In(g.loc)
		if local.Year() != year || local.Month() != m {
			continue
		}
		out.BillCount++
		out.Revenue = out.Revenue.Add(b.Total)
		out.BillPaid = out.BillPaid.Add(b.PaidAmount)
		out.NewCredit = out.NewCredit.Add(b.Credit)
	}
	for _, p := range ds.Payments {
		if p.Date.Year() != year || p.Date.Month() != m {
			continue
		}
		out.PaymentCount++
		out.Payments = out.Payments.Add(p.Amount)
	}
	out.AverageBill = money.Avg(out.Revenue, out.BillCount)
	return out, nil
}
