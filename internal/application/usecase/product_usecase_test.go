package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/inventory"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/testutil"
)

func newProductUC(t *testing.T) (*usecase.ProductUseCase, *testutil.Store) {
	t.Helper()
	store := testutil.NewStore()
	return usecase.NewProductUseCase(testutil.NewProductRepo(store)), store
}

func strPtr(s string) *string                     { return &s }
func int64Ptr(n int64) *int64                     { return &n }
func decPtr(d decimal.Decimal) *decimal.Decimal   { return &d }

func TestProductCreate_StockInicialCero(t *testing.T) {
	uc, _ := newProductUC(t)

	out, err := uc.Create(dto.CreateProductRequest{
		SKU:           "SKU-001",
		Name:          "Monitor 24",
		Price:         decimal.NewFromInt(620000),
		MinStockLevel: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.StockQuantity, "las existencias solo entran por movimientos")
	assert.True(t, out.LowStock, "0 < umbral 5")
}

func TestProductCreate_Validaciones(t *testing.T) {
	uc, _ := newProductUC(t)

	cases := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin sku", dto.CreateProductRequest{Name: "X"}},
		{"sin nombre", dto.CreateProductRequest{SKU: "S"}},
		{"precio negativo", dto.CreateProductRequest{SKU: "S", Name: "X", Price: decimal.NewFromInt(-1)}},
		{"umbral negativo", dto.CreateProductRequest{SKU: "S", Name: "X", MinStockLevel: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	uc, _ := newProductUC(t)

	in := dto.CreateProductRequest{SKU: "SKU-001", Name: "Monitor"}
	_, err := uc.Create(in)
	require.NoError(t, err)

	in.Name = "Otro nombre, mismo SKU"
	_, err = uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUpdate_NuncaTocaElStock(t *testing.T) {
	store := testutil.NewStore()
	productRepo := testutil.NewProductRepo(store)
	uc := usecase.NewProductUseCase(productRepo)
	ledger := inventory.NewStockLedgerUseCase(testutil.NewTxRunner(store), productRepo, testutil.NewStockMovementRepo(store))

	created, err := uc.Create(dto.CreateProductRequest{SKU: "SKU-001", Name: "Monitor", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = ledger.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: created.ID,
		Quantity:  8,
		Type:      entity.MovementTypePurchase,
	})
	require.NoError(t, err)

	out, err := uc.Update(created.ID, dto.UpdateProductRequest{
		Name:          strPtr("Monitor 24 FHD"),
		Price:         decPtr(decimal.NewFromInt(150)),
		MinStockLevel: int64Ptr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "Monitor 24 FHD", out.Name)
	assert.Equal(t, int64(8), out.StockQuantity, "actualizar el catálogo no altera el contador")
	assert.False(t, out.LowStock)
}

func TestProductUpdate_NoExiste(t *testing.T) {
	uc, _ := newProductUC(t)

	_, err := uc.Update(uuid.New().String(), dto.UpdateProductRequest{Name: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductList_OrdenadoPorNombre(t *testing.T) {
	uc, _ := newProductUC(t)

	for _, p := range []struct{ sku, name string }{
		{"SKU-B", "Zapato"},
		{"SKU-A", "Colchón"},
	} {
		_, err := uc.Create(dto.CreateProductRequest{SKU: p.sku, Name: p.name})
		require.NoError(t, err)
	}

	out, err := uc.List(20, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Colchón", out.Items[0].Name)
	assert.Equal(t, 20, out.Page.Limit)
}
