package statement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/application/statement"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/money"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

type fakeSource struct {
	ds       repository.Dataset
	degraded bool
}

func (f fakeSource) Snapshot() repository.Dataset { return f.ds }
func (f fakeSource) Degraded() bool               { return f.degraded }

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func mkBill(id int64, customerID string, total, paid string, date time.Time) *entity.Bill {
	t, p := money.MustParse(total), money.MustParse(paid)
	return &entity.Bill{
		ID:         id,
		CustomerID: customerID,
		Subtotal:   t,
		Total:      t,
		PaidAmount: p,
		Credit:     t.Sub(p).ClampZero(),
		Date:       date,
	}
}

func mkPayment(id, customerID, amount string, date entity.Date, created time.Time) *entity.Payment {
	return &entity.Payment{ID: id, CustomerID: customerID, Amount: money.MustParse(amount), Date: date, CreatedAt: created}
}

// dataset: Ram debe 40+20-15 = 45; Sita debe 45; Hari no debe nada.
func sampleDataset() repository.Dataset {
	return repository.Dataset{
		Customers: []*entity.Customer{
			{ID: "c-ram", Name: "Ram", Phone: "111", Vehicle: "Bike", Credit: money.FromInt(45)},
			{ID: "c-sita", Name: "Sita", Phone: "222", Vehicle: "Car", Credit: money.FromInt(45)},
			{ID: "c-hari", Name: "Hari", Phone: "333", Vehicle: "Bus", Credit: money.Zero},
		},
		Bills: []*entity.Bill{
			mkBill(1, "c-ram", "100", "60", at(2026, time.January, 10, 9)),
			mkBill(2, "c-sita", "45", "0", at(2026, time.January, 20, 9)),
			mkBill(3, "c-ram", "20", "0", at(2026, time.March, 5, 18)),
			mkBill(4, "c-hari", "10", "10", at(2025, time.December, 31, 12)),
		},
		Payments: []*entity.Payment{
			mkPayment("p2", "c-ram", "10", entity.NewDate(2026, time.March, 5), at(2026, time.March, 5, 20)),
			mkPayment("p1", "c-ram", "5", entity.NewDate(2026, time.February, 1), at(2026, time.February, 1, 8)),
		},
	}
}

func newGenerator(ds repository.Dataset) *statement.Generator {
	return statement.NewGenerator(fakeSource{ds: ds}, statement.WithLocation(time.UTC))
}

func TestCustomerStatement_OrdenYSaldo(t *testing.T) {
	g := newGenerator(sampleDataset())

	st, err := g.CustomerStatement("c-ram")
	require.NoError(t, err)

	require.Len(t, st.Entries, 4)
	assert.Equal(t, []string{"1", "p1", "3", "p2"}, []string{
		st.Entries[0].Reference, st.Entries[1].Reference, st.Entries[2].Reference, st.Entries[3].Reference,
	})
	assert.Equal(t, dto.EntryBill, st.Entries[0].Type)
	assert.Equal(t, dto.EntryPayment, st.Entries[1].Type)

	balances := make([]string, 0, len(st.Entries))
	for _, e := range st.Entries {
		balances = append(balances, e.Balance.String())
	}
	assert.Equal(t, []string{"40.00", "35.00", "55.00", "45.00"}, balances)

	assert.Equal(t, "120.00", st.TotalBilled.String())
	assert.Equal(t, "75.00", st.TotalPaid.String())
	assert.Equal(t, "45.00", st.Outstanding.String())
}

func TestCustomerStatement_ClienteInexistente(t *testing.T) {
	g := newGenerator(sampleDataset())
	_, err := g.CustomerStatement("nadie")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreditSummary_OrdenConEmpates(t *testing.T) {
	g := newGenerator(sampleDataset())

	s := g.CreditSummary()
	assert.Equal(t, "90.00", s.TotalOutstanding.String())
	assert.Equal(t, 2, s.DebtorCount)
	require.Len(t, s.Debtors, 2)
	// mismo crédito: desempata por nombre
	assert.Equal(t, "Ram", s.Debtors[0].Name)
	assert.Equal(t, "Sita", s.Debtors[1].Name)

	assert.Len(t, g.TopDebtors(1), 1)
	assert.Len(t, g.TopDebtors(10), 2)
}

func TestCreditSummary_SinDeudores(t *testing.T) {
	g := newGenerator(repository.Dataset{})
	s := g.CreditSummary()
	assert.True(t, s.TotalOutstanding.IsZero())
	assert.NotNil(t, s.Debtors)
	assert.Empty(t, s.Debtors)
}

func TestMonthlyRevenue_DoceMeses(t *testing.T) {
	g := newGenerator(sampleDataset())

	s := g.MonthlyRevenue(2026)
	require.Len(t, s.Months, 12)
	assert.Equal(t, "Jan", s.Months[0].Label)
	assert.Equal(t, "Dec", s.Months[11].Label)
	assert.Equal(t, "145.00", s.Months[0].Total.String())
	assert.Equal(t, 2, s.Months[0].Count)
	assert.True(t, s.Months[1].Total.IsZero())
	assert.Equal(t, "20.00", s.Months[2].Total.String())

	sum := money.Zero
	for _, m := range s.Months {
		sum = sum.Add(m.Total)
	}
	assert.Equal(t, "165.00", sum.String())
	assert.Equal(t, sum.String(), s.Total.String())

	empty := g.MonthlyRevenue(2030)
	require.Len(t, empty.Months, 12)
	assert.True(t, empty.Total.IsZero())
}

func TestMonthlyRevenue_ZonaHoraria(t *testing.T) {
	ds := repository.Dataset{Bills: []*entity.Bill{mkBill(1, "c", "10", "0", at(2025, time.December, 31, 20))}}
	loc := time.FixedZone("UTC+5:45", 5*3600+45*60)
	g := statement.NewGenerator(fakeSource{ds: ds}, statement.WithLocation(loc))

	assert.Equal(t, "10.00", g.MonthlyRevenue(2026).Months[0].Total.String())
	assert.True(t, g.MonthlyRevenue(2025).Total.IsZero())
}

func TestMonthlyPayments(t *testing.T) {
	g := newGenerator(sampleDataset())
	s := g.MonthlyPayments(2026)
	require.Len(t, s.Months, 12)
	assert.Equal(t, "5.00", s.Months[1].Total.String())
	assert.Equal(t, "10.00", s.Months[2].Total.String())
	assert.Equal(t, "15.00", s.Total.String())
}

func TestPaymentRate(t *testing.T) {
	g := newGenerator(sampleDataset())
	// (60 + 0 + 0 + 10 + 15) / 175 = 48.57 %
	assert.Equal(t, int64(49), g.PaymentRate())

	assert.Equal(t, int64(0), newGenerator(repository.Dataset{}).PaymentRate())
}

func TestBestMonth(t *testing.T) {
	g := newGenerator(sampleDataset())
	b := g.BestMonth()
	require.True(t, b.Found)
	assert.Equal(t, "January 2026", b.Label)
	assert.Equal(t, "145.00", b.Total.String())

	assert.False(t, newGenerator(repository.Dataset{}).BestMonth().Found)
}

func TestBestMonth_EmpateGanaElMasAntiguo(t *testing.T) {
	ds := repository.Dataset{Bills: []*entity.Bill{
		mkBill(1, "c", "50", "0", at(2026, time.May, 1, 10)),
		mkBill(2, "c", "50", "0", at(2026, time.February, 1, 10)),
		mkBill(3, "c", "50", "0", at(2026, time.September, 1, 10)),
	}}
	b := newGenerator(ds).BestMonth()
	assert.Equal(t, "February 2026", b.Label)
	assert.Equal(t, 2, b.Month)
}

func TestSummary(t *testing.T) {
	src := fakeSource{ds: sampleDataset(), degraded: true}
	g := statement.NewGenerator(src, statement.WithLocation(time.UTC))

	s := g.Summary(at(2026, time.June, 1, 0))
	assert.Equal(t, "175.00", s.TotalRevenue.String())
	assert.Equal(t, "43.75", s.AverageBill.String())
	assert.Equal(t, "85.00", s.TotalPayments.String())
	assert.Equal(t, "165.00", s.YearRevenue.String())
	assert.Equal(t, "75.00", s.YearPayments.String())
	assert.Equal(t, "90.00", s.TotalCredit.String())
	assert.Equal(t, 3, s.TotalCustomers)
	assert.Equal(t, 3, s.ActiveCustomers)
	assert.Equal(t, 4, s.TotalBills)
	assert.Equal(t, int64(49), s.PaymentRate)
	assert.Equal(t, "January 2026", s.BestMonth.Label)
	assert.True(t, s.Degraded)
}

func TestMonthlyReport(t *testing.T) {
	g := newGenerator(sampleDataset())

	r, err := g.MonthlyReport(2026, 3)
	require.NoError(t, err)
	assert.Equal(t, "March 2026", r.Label)
	assert.Equal(t, 1, r.BillCount)
	assert.Equal(t, "20.00", r.Revenue.String())
	assert.Equal(t, "20.00", r.NewCredit.String())
	assert.Equal(t, 1, r.PaymentCount)
	assert.Equal(t, "10.00", r.Payments.String())
	assert.Equal(t, "20.00", r.AverageBill.String())

	jan, err := g.MonthlyReport(2026, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, jan.BillCount)
	assert.Equal(t, "72.50", jan.AverageBill.String())

	feb, err := g.MonthlyReport(2026, 2)
	require.NoError(t, err)
	assert.Zero(t, feb.BillCount)
	assert.Equal(t, "0.00", feb.AverageBill.String())

	_, err = g.MonthlyReport(2026, 13)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
