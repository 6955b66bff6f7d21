package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/money"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) ListPayments(ctx context.Context) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, customer_id, amount, date, notes, created_at
		FROM payments ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	list := []*entity.Payment{}
	for rows.Next() {
		var p entity.Payment
		var amount decimal.Decimal
		var date time.Time
		if err := rows.Scan(&p.ID, &p.CustomerID, &amount, &date, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Amount = money.New(amount)
		p.Date = entity.DateOf(date)
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *PaymentRepo) UpsertPayment(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (id, customer_id, amount, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET customer_id = EXCLUDED.customer_id,
		    amount = EXCLUDED.amount,
		    date = EXCLUDED.date,
		    notes = EXCLUDED.notes`,
		p.ID, p.CustomerID, dec(p.Amount), p.Date.Time(), p.Notes, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) DeletePayment(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}
