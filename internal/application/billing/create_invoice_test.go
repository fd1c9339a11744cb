package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/inventory"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type billingEnv struct {
	store        *testutil.Store
	productRepo  *testutil.ProductRepo
	customerRepo *testutil.CustomerRepo
	invoiceRepo  *testutil.InvoiceRepo
	movementRepo *testutil.StockMovementRepo

	ledger    *inventory.StockLedgerUseCase
	createUC  *billing.CreateInvoiceUseCase
	confirmUC *billing.ConfirmInvoiceUseCase

	customer *entity.Customer
}

// newBillingEnv arma los casos de uso de facturación sobre repositorios en
// memoria, con un cliente sembrado y la política de impuesto cero.
func newBillingEnv(t *testing.T) *billingEnv {
	return newBillingEnvWithTax(t, nil)
}

func newBillingEnvWithTax(t *testing.T, taxPolicy billing.TaxPolicy) *billingEnv {
	t.Helper()
	store := testutil.NewStore()
	env := &billingEnv{
		store:        store,
		productRepo:  testutil.NewProductRepo(store),
		customerRepo: testutil.NewCustomerRepo(store),
		invoiceRepo:  testutil.NewInvoiceRepo(store),
		movementRepo: testutil.NewStockMovementRepo(store),
	}
	txRunner := testutil.NewTxRunner(store)
	env.ledger = inventory.NewStockLedgerUseCase(txRunner, env.productRepo, env.movementRepo)
	env.createUC = billing.NewCreateInvoiceUseCase(txRunner, env.customerRepo, env.productRepo, env.invoiceRepo, taxPolicy)
	env.confirmUC = billing.NewConfirmInvoiceUseCase(txRunner, env.ledger, env.customerRepo, env.invoiceRepo)

	env.customer = &entity.Customer{
		ID:    uuid.New().String(),
		Name:  "Distribuciones Andinas SAS",
		Email: "facturacion@andinas.example.com",
	}
	require.NoError(t, env.customerRepo.Create(env.customer))
	return env
}

// seedProduct crea un producto y, si hace falta, siembra stock vía el libro.
func (e *billingEnv) seedProduct(t *testing.T, sku string, price int64, stock int64) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:    uuid.New().String(),
		SKU:   sku,
		Name:  "Producto " + sku,
		Price: decimal.NewFromInt(price),
	}
	require.NoError(t, e.productRepo.Create(p))
	if stock > 0 {
		_, err := e.ledger.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
			ProductID: p.ID,
			Quantity:  stock,
			Type:      entity.MovementTypePurchase,
		})
		require.NoError(t, err)
		p.StockQuantity = stock
	}
	return p
}

func dueDateIn(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación de borradores
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateDraft_TotalesYEstadoInicial(t *testing.T) {
	env := newBillingEnv(t)
	p1 := env.seedProduct(t, "SKU-A", 1000, 50)
	p2 := env.seedProduct(t, "SKU-B", 250, 50)

	out, err := env.createUC.CreateDraft(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: env.customer.ID,
		DueDate:    dueDateIn(30),
		Items: []dto.InvoiceItemRequest{
			{ProductID: p1.ID, Quantity: 3},
			{ProductID: p2.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.InvoiceStatusDraft), out.Status)
	assert.Equal(t, env.customer.Name, out.CustomerName)
	assert.NotEmpty(t, out.Number, "sin número explícito se genera uno")
	assert.True(t, out.Subtotal.Equal(decimal.NewFromInt(4000)), "3×1000 + 4×250")
	assert.True(t, out.Tax.IsZero())
	assert.True(t, out.Total.Equal(decimal.NewFromInt(4000)))
	require.Len(t, out.Items, 2)

	// Crear el borrador no debe tocar el inventario
	level, err := env.ledger.CurrentStock(context.Background(), p1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), level.StockQuantity)
}

func TestCreateDraft_SnapshotDePrecio(t *testing.T) {
	env := newBillingEnv(t)
	p := env.seedProduct(t, "SKU-A", 1000, 10)

	out, err := env.createUC.CreateDraft(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: env.customer.ID,
		DueDate:    dueDateIn(15),
		Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, out.Items[0].UnitPrice.Equal(decimal.NewFromInt(1000)))

	// Subir el precio del producto no altera el borrador ya emitido
	p.Price = decimal.NewFromInt(9999)
	require.NoError(t, env.productRepo.Update(p))

	again, err := env.createUC.GetInvoice(context.Background(), out.ID)
	require.NoError(t, err)
	assert.True(t, again.Items[0].UnitPrice.Equal(decimal.NewFromInt(1000)),
		"el precio quedó congelado al crear el borrador")
	assert.True(t, again.Subtotal.Equal(decimal.NewFromInt(2000)))
}

func TestCreateDraft_PrecioExplicitoPorLinea(t *testing.T) {
	env := newBillingEnv(t)
	p := env.seedProduct(t, "SKU-A", 1000, 10)

	out, err := env.createUC.CreateDraft(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: env.customer.ID,
		DueDate:    dueDateIn(15),
		Items: []dto.InvoiceItemRequest{
			{ProductID: p.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(800)},
		},
	})
	require.NoError(t, err)
	assert.True(t, out.Items[0].UnitPrice.Equal(decimal.NewFromInt(800)), "el precio explícito manda")
	assert.True(t, out.Subtotal.Equal(decimal.NewFromInt(1600)))
}

func TestCreateDraft_ImpuestoTasaPlana(t *testing.T) {
	env := newBillingEnvWithTax(t, billing.FlatRateTaxPolicy{Rate: decimal.NewFromFloat(0.19)})
	p := env.seedProduct(t, "SKU-A", 1000, 10)

	out, err := env.createUC.CreateDraft(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: env.customer.ID,
		DueDate:    dueDateIn(15),
		Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 10}},
	})
	require.NoError(t, err)
	assert.True(t, out.Subtotal.Equal(decimal.NewFromInt(10000)))
	assert.True(t, out.Tax.Equal(decimal.NewFromInt(1900)), "19 por ciento sobre el subtotal")
	assert.True(t, out.Total.Equal(decimal.NewFromInt(11900)))
}

func TestCreateDraft_Validaciones(t *testing.T) {
	env := newBillingEnv(t)
	p := env.seedProduct(t, "SKU-A", 1000, 10)
	ctx := context.Background()

	t.Run("cliente inexistente", func(t *testing.T) {
		_, err := env.createUC.CreateDraft(ctx, dto.CreateInvoiceRequest{
			CustomerID: uuid.New().String(),
			DueDate:    dueDateIn(15),
			Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("producto inexistente", func(t *testing.T) {
		_, err := env.createUC.CreateDraft(ctx, dto.CreateInvoiceRequest{
			CustomerID: env.customer.ID,
			DueDate:    dueDateIn(15),
			Items:      []dto.InvoiceItemRequest{{ProductID: uuid.New().String(), Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("sin líneas", func(t *testing.T) {
		_, err := env.createUC.CreateDraft(ctx, dto.CreateInvoiceRequest{
			CustomerID: env.customer.ID,
			DueDate:    dueDateIn(15),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cantidad no positiva", func(t *testing.T) {
		_, err := env.createUC.CreateDraft(ctx, dto.CreateInvoiceRequest{
			CustomerID: env.customer.ID,
			DueDate:    dueDateIn(15),
			Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 0}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("precio negativo", func(t *testing.T) {
		_, err := env.createUC.CreateDraft(ctx, dto.CreateInvoiceRequest{
			CustomerID: env.customer.ID,
			DueDate:    dueDateIn(15),
			Items: []dto.InvoiceItemRequest{
				{ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(-5)},
			},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("due_date mal formada", func(t *testing.T) {
		_, err := env.createUC.CreateDraft(ctx, dto.CreateInvoiceRequest{
			CustomerID: env.customer.ID,
			DueDate:    "30/09/2026",
			Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("due_date en el pasado", func(t *testing.T) {
		_, err := env.createUC.CreateDraft(ctx, dto.CreateInvoiceRequest{
			CustomerID: env.customer.ID,
			DueDate:    dueDateIn(-3),
			Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestCreateDraft_NumeroDuplicado(t *testing.T) {
	env := newBillingEnv(t)
	p := env.seedProduct(t, "SKU-A", 1000, 10)
	ctx := context.Background()

	req := dto.CreateInvoiceRequest{
		CustomerID: env.customer.ID,
		DueDate:    dueDateIn(15),
		Number:     "FAC-0001",
		Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 1}},
	}
	_, err := env.createUC.CreateDraft(ctx, req)
	require.NoError(t, err)

	_, err = env.createUC.CreateDraft(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestListInvoices_MasRecientePrimero(t *testing.T) {
	env := newBillingEnv(t)
	p := env.seedProduct(t, "SKU-A", 1000, 10)
	ctx := context.Background()

	for _, number := range []string{"FAC-0001", "FAC-0002"} {
		_, err := env.createUC.CreateDraft(ctx, dto.CreateInvoiceRequest{
			CustomerID: env.customer.ID,
			DueDate:    dueDateIn(15),
			Number:     number,
			Items:      []dto.InvoiceItemRequest{{ProductID: p.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	rows, err := env.createUC.ListInvoices(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "FAC-0002", rows[0].Number)
	assert.Equal(t, env.customer.Name, rows[0].CustomerName)
}

func TestGetInvoice_NoExiste(t *testing.T) {
	env := newBillingEnv(t)

	_, err := env.createUC.GetInvoice(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
