package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// StockLedgerUseCase registra movimientos de stock de forma transaccional.
// Cada movimiento se anexa al libro y actualiza el contador materializado del
// producto en la misma transacción, con la fila bloqueada (SELECT FOR UPDATE)
// para evitar lost updates entre movimientos concurrentes del mismo producto.
type StockLedgerUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

// NewStockLedgerUseCase construye el caso de uso.
func NewStockLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// RegisterMovement registra un movimiento manual (purchase, return, loss,
// adjustment). Valida, inicia la transacción, bloquea la fila del producto,
// verifica que el contador resultante no quede negativo (salvo adjustment)
// y anexa el movimiento. Commit o Rollback lo hace el TxRunner.
func (uc *StockLedgerUseCase) RegisterMovement(ctx context.Context, in dto.RegisterMovementRequest) (*dto.StockMovementResponse, error) {
	if in.ProductID == "" || in.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsManualMovementType(in.Type) {
		// sale queda reservado al motor de confirmación; tipos desconocidos se rechazan
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Type:      in.Type,
		Notes:     in.Notes,
		CreatedAt: now,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		return applyMovement(movRepo, productRepo, mov)
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mov), nil
}

// applyMovement es el único punto de aplicación check-then-apply del libro:
// bloquea la fila del producto, valida el contador resultante, anexa el
// movimiento y fija el contador. Siempre dentro de una transacción.
func applyMovement(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	mov *entity.StockMovement,
) error {
	product, err := productRepo.GetByIDForUpdate(mov.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	newQty := product.StockQuantity + mov.Quantity
	// adjustment puede forzar una corrección (incluida negativa-a-no-negativa);
	// el resto de tipos no puede dejar el contador en negativo
	if newQty < 0 && mov.Type != entity.MovementTypeAdjustment {
		return &domain.InsufficientStockError{
			ProductID: mov.ProductID,
			Requested: -mov.Quantity,
			Available: product.StockQuantity,
		}
	}
	if err := movRepo.Create(mov); err != nil {
		return err
	}
	return productRepo.UpdateStock(mov.ProductID, newQty)
}

// RegisterSaleInTx anexa un movimiento sale usando los repositorios del caller
// (misma transacción). Lo invoca el motor de confirmación, una vez por línea
// de factura, con delta = -quantity y referencia a la factura. Si retorna
// error (ej: InsufficientStockError) el caller debe hacer rollback completo.
func (uc *StockLedgerUseCase) RegisterSaleInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	quantity int64,
	now time.Time,
	invoiceID string,
) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	mov := &entity.StockMovement{
		ID:               uuid.New().String(),
		ProductID:        productID,
		Quantity:         -quantity,
		Type:             entity.MovementTypeSale,
		RelatedInvoiceID: invoiceID,
		CreatedAt:        now,
	}
	return applyMovement(movRepo, productRepo, mov)
}

// CurrentStock devuelve el contador materializado junto con el replay del
// libro (suma de deltas). Ambos deben coincidir; la respuesta expone la
// comparación como diagnóstico.
func (uc *StockLedgerUseCase) CurrentStock(ctx context.Context, productID string) (*dto.StockLevelResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	ledgerTotal, err := uc.movementRepo.SumDeltas(productID)
	if err != nil {
		return nil, err
	}
	return &dto.StockLevelResponse{
		ProductID:     productID,
		StockQuantity: product.StockQuantity,
		LedgerTotal:   ledgerTotal,
		Consistent:    product.StockQuantity == ledgerTotal,
	}, nil
}

// ListMovements lista el libro de movimientos, el más reciente primero.
func (uc *StockLedgerUseCase) ListMovements(ctx context.Context, limit, offset int) ([]*dto.StockMovementResponse, error) {
	rows, err := uc.movementRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockMovementResponse, 0, len(rows))
	for _, r := range rows {
		resp := toMovementResponse(&r.Movement)
		resp.ProductName = r.ProductName
		resp.ProductSKU = r.ProductSKU
		out = append(out, resp)
	}
	return out, nil
}

func toMovementResponse(m *entity.StockMovement) *dto.StockMovementResponse {
	return &dto.StockMovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		Quantity:         m.Quantity,
		Type:             m.Type,
		Notes:            m.Notes,
		RelatedInvoiceID: m.RelatedInvoiceID,
		CreatedAt:        m.CreatedAt,
	}
}
