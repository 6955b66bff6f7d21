package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.Store = (*store)(nil)

// store repositorios sobre la conexión o una transacción.
// Los importes viajan como texto vía money.Money (driver.Valuer / sql.Scanner).
type store struct {
	q querier
}

func (s *store) ListCustomers(ctx context.Context) ([]*entity.Customer, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, name, phone, vehicle, credit, created_at, updated_at
		FROM customers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	list := []*entity.Customer{}
	for rows.Next() {
		var c entity.Customer
		var created, updated string
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Vehicle, &c.Credit, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		if c.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (s *store) UpsertCustomer(ctx context.Context, c *entity.Customer) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, vehicle, credit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			vehicle = excluded.vehicle,
			credit = excluded.credit,
			updated_at = excluded.updated_at`,
		c.ID, c.Name, c.Phone, c.Vehicle, c.Credit, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePhone
		}
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

// DeleteCustomer borra el cliente; facturas y pagos caen por ON DELETE CASCADE.
func (s *store) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *store) ListBills(ctx context.Context) ([]*entity.Bill, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, customer_id, items, subtotal, discount, total, paid_amount, credit, excess, date
		FROM bills ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	list := []*entity.Bill{}
	for rows.Next() {
		var b entity.Bill
		var items, date string
		if err := rows.Scan(&b.ID, &b.CustomerID, &items, &b.Subtotal, &b.Discount, &b.Total,
			&b.PaidAmount, &b.Credit, &b.Excess, &date); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &b.Items); err != nil {
			return nil, fmt.Errorf("decode bill %d items: %w", b.ID, err)
		}
		if b.Date, err = parseTime(date); err != nil {
			return nil, err
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (s *store) InsertBill(ctx context.Context, b *entity.Bill) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return fmt.Errorf("encode bill items: %w", err)
	}
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO bills (id, customer_id, items, subtotal, discount, total, paid_amount, credit, excess, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.CustomerID, string(items), b.Subtotal, b.Discount, b.Total,
		b.PaidAmount, b.Credit, b.Excess, formatTime(b.Date),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert bill: la factura %d ya existe: %w", b.ID, err)
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

func (s *store) DeleteBill(ctx context.Context, id int64) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

func (s *store) ListPayments(ctx context.Context) ([]*entity.Payment, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, customer_id, amount, date, notes, created_at
		FROM payments ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	list := []*entity.Payment{}
	for rows.Next() {
		var p entity.Payment
		var date, created string
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Amount, &date, &p.Notes, &created); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if p.Date, err = entity.ParseDate(date); err != nil {
			return nil, fmt.Errorf("payment %s: %w", p.ID, err)
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (s *store) UpsertPayment(ctx context.Context, p *entity.Payment) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO payments (id, customer_id, amount, date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = excluded.customer_id,
			amount = excluded.amount,
			date = excluded.date,
			notes = excluded.notes`,
		p.ID, p.CustomerID, p.Amount, p.Date.String(), p.Notes, formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert payment: %w", err)
	}
	return nil
}

func (s *store) DeletePayment(ctx context.Context, id string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}

// ReplaceAll vacía las tablas y carga ds. Debe ejecutarse dentro de RunInTx.
func (s *store) ReplaceAll(ctx context.Context, ds repository.Dataset) error {
	for _, table := range []string{"payments", "bills", "customers"} {
		if _, err := s.q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, c := range ds.Customers {
		if err := s.UpsertCustomer(ctx, c); err != nil {
			return err
		}
	}
	for _, b := range ds.Bills {
		if err := s.InsertBill(ctx, b); err != nil {
			return err
		}
	}
	for _, p := range ds.Payments {
		if err := s.UpsertPayment(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
