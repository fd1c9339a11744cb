package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/analytics"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/testutil"
)

func TestGetSummary_CuatroContadores(t *testing.T) {
	store := testutil.NewStore()
	productRepo := testutil.NewProductRepo(store)
	customerRepo := testutil.NewCustomerRepo(store)
	invoiceRepo := testutil.NewInvoiceRepo(store)
	uc := analytics.NewDashboardUseCase(testutil.NewDashboardRepo(store))

	// Dos productos, uno bajo el umbral
	require.NoError(t, productRepo.Create(&entity.Product{
		ID: uuid.New().String(), SKU: "SKU-A", Name: "A", MinStockLevel: 5,
	}))
	healthy := &entity.Product{ID: uuid.New().String(), SKU: "SKU-B", Name: "B", MinStockLevel: 5}
	require.NoError(t, productRepo.Create(healthy))
	require.NoError(t, productRepo.UpdateStock(healthy.ID, 20))

	customer := &entity.Customer{ID: uuid.New().String(), Name: "Cliente", Email: "c@x.com"}
	require.NoError(t, customerRepo.Create(customer))

	now := time.Now()
	// Confirmada este mes: cuenta como ingreso
	require.NoError(t, invoiceRepo.Create(&entity.Invoice{
		ID: uuid.New().String(), Number: "FAC-1", CustomerID: customer.ID,
		IssueDate: now, DueDate: now, Status: entity.InvoiceStatusConfirmed,
		Total: decimal.NewFromInt(5000),
	}))
	// Confirmada hace dos meses: fuera del corte
	require.NoError(t, invoiceRepo.Create(&entity.Invoice{
		ID: uuid.New().String(), Number: "FAC-2", CustomerID: customer.ID,
		IssueDate: now.AddDate(0, -2, 0), DueDate: now, Status: entity.InvoiceStatusConfirmed,
		Total: decimal.NewFromInt(9000),
	}))
	// Dos borradores pendientes y una anulada
	for i, status := range []entity.InvoiceStatus{
		entity.InvoiceStatusDraft, entity.InvoiceStatusDraft, entity.InvoiceStatusVoid,
	} {
		require.NoError(t, invoiceRepo.Create(&entity.Invoice{
			ID: uuid.New().String(), Number: "FAC-X" + string(rune('A'+i)), CustomerID: customer.ID,
			IssueDate: now, DueDate: now, Status: status, Total: decimal.NewFromInt(100),
		}))
	}

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, out.TotalProducts)
	assert.Equal(t, 1, out.LowStock)
	assert.True(t, out.MonthlyRevenue.Equal(decimal.NewFromInt(5000)),
		"solo facturas confirmadas del mes en curso")
	assert.Equal(t, 2, out.PendingInvoices)
}

func TestGetSummary_SinDatos(t *testing.T) {
	uc := analytics.NewDashboardUseCase(testutil.NewDashboardRepo(testutil.NewStore()))

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, out.TotalProducts)
	assert.Equal(t, 0, out.LowStock)
	assert.True(t, out.MonthlyRevenue.IsZero())
	assert.Equal(t, 0, out.PendingInvoices)
}
