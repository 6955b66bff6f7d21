package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/money"
)

// LineItem representa una línea de producto dentro de una factura.
type LineItem struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    money.Money     `json:"price"`
	Total    money.Money     `json:"total"`
}

// Bill representa una factura. Los totales quedan congelados al crearla.
type Bill struct {
	ID         int64       `json:"id"`
	CustomerID string      `json:"customer_id"`
	Items      []LineItem  `json:"items"`
	Subtotal   money.Money `json:"subtotal"`
	Discount   money.Money `json:"discount"`
	Total      money.Money `json:"total"`
	PaidAmount money.Money `json:"paid_amount"`
	Credit     money.Money `json:"credit"`
	Excess     money.Money `json:"excess"` // pagado por encima del total (informativo)
	Date       time.Time   `json:"date"`
}

// Clone devuelve una copia con su propio slice de líneas.
func (b *Bill) Clone() *Bill {
	if b == nil {
		return nil
	}
	cp := *b
	cp.Items = append([]LineItem(nil), b.Items...)
	return &cp
}
