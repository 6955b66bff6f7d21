package entity

import (
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain/money"
)

// Payment representa un abono posterior de un cliente. Inmutable una vez creado.
type Payment struct {
	ID         string      `json:"id"` // UUIDv7
	CustomerID string      `json:"customer_id"`
	Amount     money.Money `json:"amount"`
	Date       Date        `json:"date"`
	Notes      string      `json:"notes,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Clone devuelve una copia independiente.
func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
