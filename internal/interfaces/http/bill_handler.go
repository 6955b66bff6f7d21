package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain/billing"
)

// BillHandler facturas (protegido).
type BillHandler struct {
	engine *ledger.Engine
}

// NewBillHandler construye el handler.
func NewBillHandler(engine *ledger.Engine) *BillHandler {
	return &BillHandler{engine: engine}
}

// Create POST /api/bills
func (h *BillHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	items := make([]billing.ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, billing.ItemInput{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	bill, err := h.engine.CreateBill(c.Context(), ledger.BillInput{
		CustomerID: in.CustomerID,
		Items:      items,
		Discount:   in.Discount,
		Paid:       in.PaidAmount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bill)
}

// List GET /api/bills?customer_id=
func (h *BillHandler) List(c *fiber.Ctx) error {
	customerID := c.Query("customer_id")
	if customerID == "" {
		return c.JSON(h.engine.Bills())
	}
	bills, err := h.engine.BillsByCustomer(customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(bills)
}

// GetByID GET /api/bills/:id
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badQuery(c, "id de factura inválido")
	}
	bill, err := h.engine.Bill(int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(bill)
}
