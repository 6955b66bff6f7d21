package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// PaymentHandler abonos (protegido).
type PaymentHandler struct {
	engine *ledger.Engine
	today  func() entity.Date
}

// NewPaymentHandler construye el handler. today da la fecha por defecto de un abono sin fecha.
func NewPaymentHandler(engine *ledger.Engine, today func() entity.Date) *PaymentHandler {
	return &PaymentHandler{engine: engine, today: today}
}

// Create POST /api/payments
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	date := h.today()
	if in.Date != "" {
		d, err := entity.ParseDate(in.Date)
		if err != nil {
			return badQuery(c, "date debe tener formato YYYY-MM-DD")
		}
		date = d
	}
	payment, err := h.engine.RecordPayment(c.Context(), ledger.PaymentInput{
		CustomerID: in.CustomerID,
		Amount:     in.Amount,
		Date:       date,
		Notes:      in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// List GET /api/payments?customer_id=
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	customerID := c.Query("customer_id")
	if customerID == "" {
		return c.JSON(h.engine.Payments())
	}
	payments, err := h.engine.PaymentsByCustomer(customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(payments)
}
