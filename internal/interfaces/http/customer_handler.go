package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/application/statement"
)

// CustomerHandler maneja las peticiones HTTP de clientes (protegido).
type CustomerHandler struct {
	engine  *ledger.Engine
	reports *statement.Generator
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(engine *ledger.Engine, reports *statement.Generator) *CustomerHandler {
	return &CustomerHandler{engine: engine, reports: reports}
}

// List GET /api/customers?q=texto
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.engine.SearchCustomers(c.Query("q")))
}

// Create POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.engine.RegisterCustomer(c.Context(), ledger.CustomerInput{
		Name:    in.Name,
		Phone:   in.Phone,
		Vehicle: in.Vehicle,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// GetByID GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	customer, err := h.engine.Customer(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customer)
}

// Update PUT /api/customers/:id (parcial)
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.engine.UpdateCustomer(c.Context(), c.Params("id"), ledger.CustomerPatch{
		Name:    in.Name,
		Phone:   in.Phone,
		Vehicle: in.Vehicle,
		Credit:  in.Credit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customer)
}

// Delete DELETE /api/customers/:id. Borra también sus facturas y pagos.
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.engine.DeleteCustomer(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Statement GET /api/customers/:id/statement
func (h *CustomerHandler) Statement(c *fiber.Ctx) error {
	st, err := h.reports.CustomerStatement(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(st)
}

// Reconcile POST /api/customers/:id/reconcile?repair=true
func (h *CustomerHandler) Reconcile(c *fiber.Ctx) error {
	r, err := h.engine.Reconcile(c.Context(), c.Params("id"), c.QueryBool("repair", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(r)
}
