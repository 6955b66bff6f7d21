// Package backup exporta e importa el libro completo como documento JSON.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/money"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// Ledger operaciones del motor que usa el respaldo.
type Ledger interface {
	Snapshot() repository.Dataset
	ReplaceAll(ctx context.Context, ds repository.Dataset) error
}

// Service caso de uso de respaldo y restauración.
type Service struct {
	ledger Ledger
	now    func() time.Time
}

// NewService construye el caso de uso.
func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger, now: time.Now}
}

// Export arma el documento con el estado actual y un resumen informativo.
func (s *Service) Export() *dto.BackupDocument {
	ds := s.ledger.Snapshot()
	revenue, outstanding := money.Zero, money.Zero
	for _, b := range ds.Bills {
		revenue = revenue.Add(b.Total)
	}
	for _, c := range ds.Customers {
		outstanding = outstanding.Add(c.Credit)
	}
	return &dto.BackupDocument{
		Version:     dto.BackupVersion,
		GeneratedAt: s.now().UTC(),
		Customers:   ds.Customers,
		Bills:       ds.Bills,
		Payments:    ds.Payments,
		Summary: dto.BackupSummary{
			TotalCustomers:   len(ds.Customers),
			TotalBills:       len(ds.Bills),
			TotalPayments:    len(ds.Payments),
			TotalRevenue:     revenue,
			TotalOutstanding: outstanding,
		},
	}
}

// WriteTo escribe el documento exportado como JSON indentado.
func (s *Service) WriteTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Export())
}

// Import reemplaza todo el libro por el contenido del documento. No mezcla:
// lo que no esté en el documento se pierde.
func (s *Service) Import(ctx context.Context, doc *dto.BackupDocument) (*dto.ImportResponse, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: documento vacío", domain.ErrInvalidBackup)
	}
	if doc.Version != dto.BackupVersion {
		return nil, fmt.Errorf("%w: versión %q no soportada", domain.ErrInvalidBackup, doc.Version)
	}
	ds := repository.Dataset{Customers: doc.Customers, Bills: doc.Bills, Payments: doc.Payments}
	if err := s.ledger.ReplaceAll(ctx, ds); err != nil {
		return nil, err
	}
	return &dto.ImportResponse{
		Customers: len(doc.Customers),
		Bills:     len(doc.Bills),
		Payments:  len(doc.Payments),
	}, nil
}

// ReadFrom decodifica un documento JSON e importa su contenido.
func (s *Service) ReadFrom(ctx context.Context, r io.Reader) (*dto.ImportResponse, error) {
	var doc dto.BackupDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidBackup, err)
	}
	return s.Import(ctx, &doc)
}
