package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/inventory"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type ledgerEnv struct {
	store   *testutil.Store
	uc      *inventory.StockLedgerUseCase
	product *entity.Product
}

// newLedgerEnv arma el caso de uso sobre repositorios en memoria, con un
// producto sembrado con el stock indicado (vía movimiento de ajuste, para que
// contador y libro nazcan consistentes).
func newLedgerEnv(t *testing.T, initialStock int64) *ledgerEnv {
	t.Helper()
	store := testutil.NewStore()
	productRepo := testutil.NewProductRepo(store)
	movementRepo := testutil.NewStockMovementRepo(store)
	uc := inventory.NewStockLedgerUseCase(testutil.NewTxRunner(store), productRepo, movementRepo)

	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           "SKU-001",
		Name:          "Tornillo 3mm",
		Price:         decimal.NewFromInt(500),
		MinStockLevel: 10,
	}
	require.NoError(t, productRepo.Create(product))

	if initialStock != 0 {
		_, err := uc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
			ProductID: product.ID,
			Quantity:  initialStock,
			Type:      entity.MovementTypeAdjustment,
			Notes:     "carga inicial",
		})
		require.NoError(t, err)
	}
	product.StockQuantity = initialStock
	return &ledgerEnv{store: store, uc: uc, product: product}
}

func (e *ledgerEnv) stock(t *testing.T) *dto.StockLevelResponse {
	t.Helper()
	out, err := e.uc.CurrentStock(context.Background(), e.product.ID)
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos manuales
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_CompraActualizaContadorYLibro(t *testing.T) {
	env := newLedgerEnv(t, 0)

	out, err := env.uc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: env.product.ID,
		Quantity:  25,
		Type:      entity.MovementTypePurchase,
		Notes:     "pedido proveedor",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25), out.Quantity)
	assert.Equal(t, entity.MovementTypePurchase, out.Type)
	assert.Empty(t, out.RelatedInvoiceID, "movimientos manuales no referencian factura")

	level := env.stock(t)
	assert.Equal(t, int64(25), level.StockQuantity)
	assert.Equal(t, int64(25), level.LedgerTotal)
	assert.True(t, level.Consistent)
}

func TestRegisterMovement_SalidaConStockSuficiente(t *testing.T) {
	env := newLedgerEnv(t, 10)

	_, err := env.uc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: env.product.ID,
		Quantity:  -4,
		Type:      entity.MovementTypeLoss,
		Notes:     "mercancía dañada",
	})
	require.NoError(t, err)

	level := env.stock(t)
	assert.Equal(t, int64(6), level.StockQuantity)
	assert.True(t, level.Consistent)
}

func TestRegisterMovement_StockInsuficienteRevierteTodo(t *testing.T) {
	env := newLedgerEnv(t, 5)

	_, err := env.uc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: env.product.ID,
		Quantity:  -8,
		Type:      entity.MovementTypeLoss,
	})
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, env.product.ID, stockErr.ProductID)
	assert.Equal(t, int64(8), stockErr.Requested)
	assert.Equal(t, int64(5), stockErr.Available)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ni el contador ni el libro deben registrar el intento fallido
	level := env.stock(t)
	assert.Equal(t, int64(5), level.StockQuantity)
	assert.Equal(t, int64(5), level.LedgerTotal)
	assert.True(t, level.Consistent)
}

func TestRegisterMovement_AjusteNegativoPermitido(t *testing.T) {
	env := newLedgerEnv(t, 5)

	// Un ajuste puede forzar el contador por debajo de cero (corrección de
	// inventario físico); los demás tipos no.
	_, err := env.uc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: env.product.ID,
		Quantity:  -8,
		Type:      entity.MovementTypeAdjustment,
		Notes:     "conteo físico",
	})
	require.NoError(t, err)

	level := env.stock(t)
	assert.Equal(t, int64(-3), level.StockQuantity)
	assert.Equal(t, int64(-3), level.LedgerTotal)
	assert.True(t, level.Consistent)
}

func TestRegisterMovement_TipoSaleRechazado(t *testing.T) {
	env := newLedgerEnv(t, 10)

	_, err := env.uc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: env.product.ID,
		Quantity:  -1,
		Type:      entity.MovementTypeSale,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sale solo lo genera la confirmación de facturas")
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	env := newLedgerEnv(t, 10)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.RegisterMovementRequest
	}{
		{"delta cero", dto.RegisterMovementRequest{ProductID: env.product.ID, Quantity: 0, Type: entity.MovementTypePurchase}},
		{"sin producto", dto.RegisterMovementRequest{Quantity: 5, Type: entity.MovementTypePurchase}},
		{"tipo desconocido", dto.RegisterMovementRequest{ProductID: env.product.ID, Quantity: 5, Type: "transfer"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.uc.RegisterMovement(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRegisterMovement_ProductoNoExiste(t *testing.T) {
	env := newLedgerEnv(t, 0)

	_, err := env.uc.RegisterMovement(context.Background(), dto.RegisterMovementRequest{
		ProductID: uuid.New().String(),
		Quantity:  5,
		Type:      entity.MovementTypePurchase,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Replay del libro
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentStock_ReplayCoincideTrasVariosMovimientos(t *testing.T) {
	env := newLedgerEnv(t, 0)
	ctx := context.Background()

	movs := []dto.RegisterMovementRequest{
		{ProductID: env.product.ID, Quantity: 50, Type: entity.MovementTypePurchase},
		{ProductID: env.product.ID, Quantity: -7, Type: entity.MovementTypeLoss},
		{ProductID: env.product.ID, Quantity: 3, Type: entity.MovementTypeReturn},
		{ProductID: env.product.ID, Quantity: -6, Type: entity.MovementTypeAdjustment},
	}
	for _, m := range movs {
		_, err := env.uc.RegisterMovement(ctx, m)
		require.NoError(t, err)
	}

	level := env.stock(t)
	assert.Equal(t, int64(40), level.StockQuantity)
	assert.Equal(t, level.StockQuantity, level.LedgerTotal, "el contador debe ser derivable del libro")
	assert.True(t, level.Consistent)
}

func TestCurrentStock_ProductoNoExiste(t *testing.T) {
	env := newLedgerEnv(t, 0)

	_, err := env.uc.CurrentStock(context.Background(), uuid.New().String())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListMovements_MasRecientePrimeroConDatosDeProducto(t *testing.T) {
	env := newLedgerEnv(t, 0)
	ctx := context.Background()

	_, err := env.uc.RegisterMovement(ctx, dto.RegisterMovementRequest{
		ProductID: env.product.ID, Quantity: 10, Type: entity.MovementTypePurchase,
	})
	require.NoError(t, err)
	_, err = env.uc.RegisterMovement(ctx, dto.RegisterMovementRequest{
		ProductID: env.product.ID, Quantity: -2, Type: entity.MovementTypeLoss,
	})
	require.NoError(t, err)

	rows, err := env.uc.ListMovements(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(-2), rows[0].Quantity, "el más reciente primero")
	assert.Equal(t, "Tornillo 3mm", rows[0].ProductName)
	assert.Equal(t, "SKU-001", rows[0].ProductSKU)
}
