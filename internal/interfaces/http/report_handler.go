package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/application/statement"
)

// ReportHandler reportes de crédito y facturación (protegido).
type ReportHandler struct {
	reports      *statement.Generator
	now          func() time.Time
	overdueLimit int
}

// NewReportHandler construye el handler. overdueLimit es el tamaño por defecto de /overdue.
func NewReportHandler(reports *statement.Generator, now func() time.Time, overdueLimit int) *ReportHandler {
	if overdueLimit <= 0 {
		overdueLimit = 10
	}
	return &ReportHandler{reports: reports, now: now, overdueLimit: overdueLimit}
}

// Credits GET /api/reports/credits
func (h *ReportHandler) Credits(c *fiber.Ctx) error {
	return c.JSON(h.reports.CreditSummary())
}

// Overdue GET /api/reports/overdue?limit=10
func (h *ReportHandler) Overdue(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", h.overdueLimit)
	if limit <= 0 {
		return badQuery(c, "limit debe ser mayor que 0")
	}
	return c.JSON(h.reports.TopDebtors(limit))
}

// Revenue GET /api/reports/revenue?year=2026
func (h *ReportHandler) Revenue(c *fiber.Ctx) error {
	year, ok := h.year(c)
	if !ok {
		return badQuery(c, "year inválido")
	}
	return c.JSON(h.reports.MonthlyRevenue(year))
}

// Payments GET /api/reports/payments?year=2026
func (h *ReportHandler) Payments(c *fiber.Ctx) error {
	year, ok := h.year(c)
	if !ok {
		return badQuery(c, "year inválido")
	}
	return c.JSON(h.reports.MonthlyPayments(year))
}

// PaymentRate GET /api/reports/payment-rate
func (h *ReportHandler) PaymentRate(c *fiber.Ctx) error {
	return c.JSON(dto.PaymentRateResponse{Rate: h.reports.PaymentRate()})
}

// BestMonth GET /api/reports/best-month
func (h *ReportHandler) BestMonth(c *fiber.Ctx) error {
	return c.JSON(h.reports.BestMonth())
}

// Summary GET /api/reports/summary
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.reports.Summary(h.now()))
}

// Monthly GET /api/reports/monthly?year=2026&month=3. Sin parámetros usa el mes actual.
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	year, ok := h.year(c)
	if !ok {
		return badQuery(c, "year inválido")
	}
	month := c.QueryInt("month", int(h.now().Month()))
	report, err := h.reports.MonthlyReport(year, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// year lee ?year=; ausente equivale al año en curso.
func (h *ReportHandler) year(c *fiber.Ctx) (int, bool) {
	year := c.QueryInt("year", h.now().Year())
	return year, year >= 1 && year <= 9999
}
