package backup_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cartera-api/internal/application/backup"
	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/billing"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/money"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/memory"
)

func seeded(t *testing.T) *ledger.Engine {
	t.Helper()
	ctx := context.Background()
	e := ledger.NewEngine(memory.NewGateway(), nil)
	c, err := e.RegisterCustomer(ctx, ledger.CustomerInput{Name: "Ram", Phone: "111", Vehicle: "Bike"})
	require.NoError(t, err)
	_, err = e.CreateBill(ctx, ledger.BillInput{
		CustomerID: c.ID,
		Items:      []billing.ItemInput{{Name: "Sticker", Quantity: decimal.NewFromInt(2), Price: money.FromInt(50)}},
		Paid:       money.FromInt(60),
	})
	require.NoError(t, err)
	_, err = e.RecordPayment(ctx, ledger.PaymentInput{
		CustomerID: c.ID, Amount: money.FromInt(15), Date: entity.DateOf(time.Now()), Notes: "efectivo",
	})
	require.NoError(t, err)
	return e
}

func TestExport_Resumen(t *testing.T) {
	svc := backup.NewService(seeded(t))

	doc := svc.Export()
	assert.Equal(t, "1.0", doc.Version)
	assert.Len(t, doc.Customers, 1)
	assert.Len(t, doc.Bills, 1)
	assert.Len(t, doc.Payments, 1)
	assert.Equal(t, 1, doc.Summary.TotalCustomers)
	assert.Equal(t, "100.00", doc.Summary.TotalRevenue.String())
	assert.Equal(t, "25.00", doc.Summary.TotalOutstanding.String())
}

func TestExportImport_RoundTripEntreMotores(t *testing.T) {
	ctx := context.Background()
	src := seeded(t)

	var buf bytes.Buffer
	require.NoError(t, backup.NewService(src).WriteTo(&buf))

	dst := ledger.NewEngine(memory.NewGateway(), nil)
	res, err := backup.NewService(dst).ReadFrom(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, dto.ImportResponse{Customers: 1, Bills: 1, Payments: 1}, *res)

	want, got := src.Snapshot(), dst.Snapshot()
	require.Len(t, got.Customers, 1)
	assert.Equal(t, want.Customers[0].ID, got.Customers[0].ID)
	assert.Equal(t, "25.00", got.Customers[0].Credit.String())
	assert.Equal(t, want.Bills[0].Items[0].Name, got.Bills[0].Items[0].Name)
	assert.Equal(t, "efectivo", got.Payments[0].Notes)

	r, err := dst.Reconcile(ctx, got.Customers[0].ID, false)
	require.NoError(t, err)
	assert.True(t, r.Matches)
}

func TestImport_VersionNoSoportada(t *testing.T) {
	e := seeded(t)
	_, err := backup.NewService(e).Import(context.Background(), &dto.BackupDocument{Version: "2.0"})
	assert.ErrorIs(t, err, domain.ErrInvalidBackup)
	assert.Len(t, e.Customers(), 1)
}

func TestImport_DocumentoInvalidoNoModificaNada(t *testing.T) {
	e := seeded(t)
	svc := backup.NewService(e)

	_, err := svc.ReadFrom(context.Background(), strings.NewReader(`{"version":"1.0","bills":[{"id":1,"customer_id":"x"}]}`))
	assert.ErrorIs(t, err, domain.ErrInvalidBackup)

	_, err = svc.ReadFrom(context.Background(), strings.NewReader(`no es json`))
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Len(t, e.Customers(), 1)
	assert.Len(t, e.Bills(), 1)
}
