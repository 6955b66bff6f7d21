package dto

import (
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain/money"
)

// Tipos de movimiento en un estado de cuenta.
const (
	EntryBill    = "bill"
	EntryPayment = "payment"
)

// ── Estado de cuenta ─────────────────────────────────────────────────────────

// StatementEntry movimiento del estado de cuenta con saldo acumulado.
// Para facturas Amount es el crédito generado; para pagos, el monto abonado.
type StatementEntry struct {
	Type      string      `json:"type"` // bill | payment
	Reference string      `json:"reference"`
	Date      time.Time   `json:"date"`
	Total     money.Money `json:"total"`  // total de la factura; igual a Amount en pagos
	Paid      money.Money `json:"paid"`   // pagado en la factura o monto del abono
	Amount    money.Money `json:"amount"` // efecto sobre el saldo (+ factura, − pago)
	Balance   money.Money `json:"balance"`
	Notes     string      `json:"notes,omitempty"`
}

// CustomerStatement estado de cuenta cronológico de un cliente.
type CustomerStatement struct {
	CustomerID  string           `json:"customer_id"`
	Name        string           `json:"name"`
	Phone       string           `json:"phone"`
	Vehicle     string           `json:"vehicle"`
	Entries     []StatementEntry `json:"entries"`
	TotalBilled money.Money      `json:"total_billed"` // Σ total de facturas
	TotalPaid   money.Money      `json:"total_paid"`   // Σ pagado en facturas + Σ abonos
	Outstanding money.Money      `json:"outstanding"`  // crédito guardado del cliente
}

// ── Créditos ────────────────────────────────────────────────────────────────

// Debtor cliente con saldo pendiente.
type Debtor struct {
	CustomerID string      `json:"customer_id"`
	Name       string      `json:"name"`
	Phone      string      `json:"phone"`
	Vehicle    string      `json:"vehicle"`
	Credit     money.Money `json:"credit"`
}

// CreditSummary total pendiente y deudores ordenados de mayor a menor.
type CreditSummary struct {
	TotalOutstanding money.Money `json:"total_outstanding"`
	DebtorCount      int         `json:"debtor_count"`
	Debtors          []Debtor    `json:"debtors"`
}

// ── Series mensuales ────────────────────────────────────────────────────────

// MonthBucket total de un mes del año.
type MonthBucket struct {
	Month int         `json:"month"` // 1..12
	Label string      `json:"label"` // Jan..Dec
	Total money.Money `json:"total"`
	Count int         `json:"count"`
}

// MonthlySeries 12 meses de un año.
type MonthlySeries struct {
	Year   int           `json:"year"`
	Total  money.Money   `json:"total"`
	Months []MonthBucket `json:"months"`
}

// PaymentRateResponse porcentaje cobrado sobre lo facturado.
type PaymentRateResponse struct {
	Rate int64 `json:"rate"`
}

// BestMonthResponse mes con mayor facturación.
type BestMonthResponse struct {
	Found bool        `json:"found"`
	Label string      `json:"label,omitempty"` // "January 2026"
	Year  int         `json:"year,omitempty"`
	Month int         `json:"month,omitempty"`
	Total money.Money `json:"total"`
}

// ── Resúmenes ───────────────────────────────────────────────────────────────

// AnalyticsSummary cifras generales del negocio.
type AnalyticsSummary struct {
	TotalRevenue    money.Money       `json:"total_revenue"`
	AverageBill     money.Money       `json:"average_bill"`
	TotalPayments   money.Money       `json:"total_payments"`
	YearRevenue     money.Money       `json:"year_revenue"`
	YearPayments    money.Money       `json:"year_payments"`
	TotalCredit     money.Money       `json:"total_credit"`
	TotalCustomers  int               `json:"total_customers"`
	ActiveCustomers int               `json:"active_customers"` // con al menos una factura
	TotalBills      int               `json:"total_bills"`
	PaymentRate     int64             `json:"payment_rate"`
	BestMonth       BestMonthResponse `json:"best_month"`
	Degraded        bool              `json:"degraded"`
}

// MonthlyReport facturación y cobros de un mes.
type MonthlyReport struct {
	Year         int         `json:"year"`
	Month        int         `json:"month"`
	Label        string      `json:"label"`
	BillCount    int         `json:"bill_count"`
	Revenue      money.Money `json:"revenue"`
	AverageBill  money.Money `json:"average_bill"`
	BillPaid     money.Money `json:"bill_paid"`
	PaymentCount int         `json:"payment_count"`
	Payments     money.Money `json:"payments"`
	NewCredit    money.Money `json:"new_credit"`
}
