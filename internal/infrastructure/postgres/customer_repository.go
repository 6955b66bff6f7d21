package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/money"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// ListCustomers lista todos los clientes en orden de alta.
func (r *CustomerRepo) ListCustomers(ctx context.Context) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, phone, vehicle, credit, created_at, updated_at
		FROM customers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	list := []*entity.Customer{}
	for rows.Next() {
		var c entity.Customer
		var credit decimal.Decimal
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Vehicle, &credit, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		c.Credit = money.New(credit)
		list = append(list, &c)
	}
	return list, rows.Err()
}

// UpsertCustomer inserta o actualiza por ID.
func (r *CustomerRepo) UpsertCustomer(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (id, name, phone, vehicle, credit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    phone = EXCLUDED.phone,
		    vehicle = EXCLUDED.vehicle,
		    credit = EXCLUDED.credit,
		    updated_at = EXCLUDED.updated_at`,
		c.ID, c.Name, c.Phone, c.Vehicle, dec(c.Credit), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePhone
		}
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

// DeleteCustomer elimina un cliente; facturas y pagos caen por ON DELETE CASCADE.
func (r *CustomerRepo) DeleteCustomer(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
