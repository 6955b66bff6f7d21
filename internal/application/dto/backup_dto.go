package dto

import (
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/money"
)

// BackupVersion versión del formato de respaldo.
const BackupVersion = "1.0"

// BackupSummary totales informativos del respaldo (no se validan al importar).
type BackupSummary struct {
	TotalCustomers   int         `json:"total_customers"`
	TotalBills       int         `json:"total_bills"`
	TotalPayments    int         `json:"total_payments"`
	TotalRevenue     money.Money `json:"total_revenue"`
	TotalOutstanding money.Money `json:"total_outstanding"`
}

// BackupDocument documento de exportación/importación del libro completo.
type BackupDocument struct {
	Version     string             `json:"version"`
	GeneratedAt time.Time          `json:"generated_at"`
	Customers   []*entity.Customer `json:"customers"`
	Bills       []*entity.Bill     `json:"bills"`
	Payments    []*entity.Payment  `json:"payments"`
	Summary     BackupSummary      `json:"summary"`
}

// ImportResponse conteo de registros importados.
type ImportResponse struct {
	Customers int `json:"customers"`
	Bills     int `json:"bills"`
	Payments  int `json:"payments"`
}
