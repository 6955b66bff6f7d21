package repository

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// BillRepository define el puerto de persistencia para Bill (cabecera y líneas juntas).
type BillRepository interface {
	ListBills(ctx context.Context) ([]*entity.Bill, error)
	InsertBill(ctx context.Context, bill *entity.Bill) error
	DeleteBill(ctx context.Context, id int64) error
}
