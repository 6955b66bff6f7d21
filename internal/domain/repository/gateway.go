package repository

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// Dataset contenido completo del libro: clientes, facturas y pagos.
// Se usa para carga inicial, importación y snapshots de lectura.
type Dataset struct {
	Customers []*entity.Customer `json:"customers"`
	Bills     []*entity.Bill     `json:"bills"`
	Payments  []*entity.Payment  `json:"payments"`
}

// Store agrupa los repositorios del libro. Dentro de RunInTx todos quedan atados
// a la misma transacción.
type Store interface {
	CustomerRepository
	BillRepository
	PaymentRepository
	// ReplaceAll sustituye las tres colecciones por ds (sin mezclar).
	ReplaceAll(ctx context.Context, ds Dataset) error
}

// Gateway es el almacenamiento durable del libro de créditos.
type Gateway interface {
	Store
	// RunInTx ejecuta fn con un Store transaccional; si fn falla no queda nada escrito.
	RunInTx(ctx context.Context, fn func(tx Store) error) error
}
