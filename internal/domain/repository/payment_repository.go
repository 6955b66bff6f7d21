package repository

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	ListPayments(ctx context.Context) ([]*entity.Payment, error)
	UpsertPayment(ctx context.Context, payment *entity.Payment) error
	DeletePayment(ctx context.Context, id string) error
}
