package entity

import (
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain/money"
)

// Customer representa un cliente del negocio con su crédito pendiente.
// Phone es la clave de negocio (única); Credit nunca es negativo.
type Customer struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Phone     string      `json:"phone"`
	Vehicle   string      `json:"vehicle"`
	Credit    money.Money `json:"credit"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Clone devuelve una copia independiente.
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
