package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/money"
)

// CreateCustomerRequest entrada para alta de cliente.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
}

// UpdateCustomerRequest edición parcial; los campos ausentes no cambian.
// Credit permite el ajuste manual del saldo.
type UpdateCustomerRequest struct {
	Name    *string      `json:"name,omitempty"`
	Phone   *string      `json:"phone,omitempty"`
	Vehicle *string      `json:"vehicle,omitempty"`
	Credit  *money.Money `json:"credit,omitempty"`
}

// BillItemRequest línea de producto tal como llega del formulario.
type BillItemRequest struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    money.Money     `json:"price"`
}

// CreateBillRequest entrada para crear una factura.
type CreateBillRequest struct {
	CustomerID string            `json:"customer_id"`
	Items      []BillItemRequest `json:"items"`
	Discount   money.Money       `json:"discount"`
	PaidAmount money.Money       `json:"paid_amount"`
}

// CreatePaymentRequest entrada para registrar un abono. Date en formato YYYY-MM-DD;
// vacía equivale a hoy.
type CreatePaymentRequest struct {
	CustomerID string      `json:"customer_id"`
	Amount     money.Money `json:"amount"`
	Date       string      `json:"date"`
	Notes      string      `json:"notes"`
}
