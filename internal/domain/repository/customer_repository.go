package repository

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	ListCustomers(ctx context.Context) ([]*entity.Customer, error)
	// UpsertCustomer inserta o reemplaza por ID.
	UpsertCustomer(ctx context.Context, customer *entity.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
}
