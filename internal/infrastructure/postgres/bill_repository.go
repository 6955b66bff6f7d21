package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/money"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo implementación de BillRepository. Las líneas se guardan en la columna items (JSONB).
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

func (r *BillRepo) ListBills(ctx context.Context) ([]*entity.Bill, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, customer_id, items, subtotal, discount, total, paid_amount, credit, excess, date
		FROM bills ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()
	list := []*entity.Bill{}
	for rows.Next() {
		var b entity.Bill
		var items []byte
		var subtotal, discount, total, paid, credit, excess decimal.Decimal
		if err := rows.Scan(&b.ID, &b.CustomerID, &items, &subtotal, &discount, &total, &paid, &credit, &excess, &b.Date); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		if err := json.Unmarshal(items, &b.Items); err != nil {
			return nil, fmt.Errorf("decode bill %d items: %w", b.ID, err)
		}
		b.Subtotal = money.New(subtotal)
		b.Discount = money.New(discount)
		b.Total = money.New(total)
		b.PaidAmount = money.New(paid)
		b.Credit = money.New(credit)
		b.Excess = money.New(excess)
		list = append(list, &b)
	}
	return list, rows.Err()
}

// InsertBill inserta la factura. Los IDs no se reutilizan: un ID existente es error.
func (r *BillRepo) InsertBill(ctx context.Context, b *entity.Bill) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return fmt.Errorf("encode bill items: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO bills (id, customer_id, items, subtotal, discount, total, paid_amount, credit, excess, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.CustomerID, items, dec(b.Subtotal), dec(b.Discount), dec(b.Total),
		dec(b.PaidAmount), dec(b.Credit), dec(b.Excess), b.Date,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert bill: la factura %d ya existe: %w", b.ID, err)
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

func (r *BillRepo) DeleteBill(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}
