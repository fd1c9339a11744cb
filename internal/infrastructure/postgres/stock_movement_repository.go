package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo acceso al libro de movimientos (append-only: nunca
// UPDATE ni DELETE sobre stock_movements).
type StockMovementRepo struct {
	q Querier
}

func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento al libro.
func (r *StockMovementRepo) Create(mov *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, quantity, movement_type, notes, related_invoice_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.ProductID, mov.Quantity, mov.Type,
		nullIfEmpty(mov.Notes), nullIfEmpty(mov.RelatedInvoiceID), mov.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct historial de un producto, el más reciente primero.
func (r *StockMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, quantity, movement_type, notes, related_invoice_id, created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		mov, err := scanMovement(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, mov)
	}
	return list, rows.Err()
}

// List historial global con datos del producto, el más reciente primero.
func (r *StockMovementRepo) List(limit, offset int) ([]*repository.MovementWithProduct, error) {
	query := `
		SELECT m.id, m.product_id, m.quantity, m.movement_type, m.notes, m.related_invoice_id, m.created_at,
		       p.name, p.sku
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		ORDER BY m.created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*repository.MovementWithProduct
	for rows.Next() {
		var mw repository.MovementWithProduct
		var notes, related *string
		if err := rows.Scan(
			&mw.Movement.ID, &mw.Movement.ProductID, &mw.Movement.Quantity, &mw.Movement.Type,
			&notes, &related, &mw.Movement.CreatedAt,
			&mw.ProductName, &mw.ProductSKU,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		mw.Movement.Notes = derefStr(notes)
		mw.Movement.RelatedInvoiceID = derefStr(related)
		list = append(list, &mw)
	}
	return list, rows.Err()
}

// SumDeltas total del libro para un producto (replay del historial).
// Debe coincidir con products.stock_quantity.
func (r *StockMovementRepo) SumDeltas(productID string) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE product_id = $1`
	var total int64
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return total, nil
}

func scanMovement(scan func(dest ...any) error) (*entity.StockMovement, error) {
	var mov entity.StockMovement
	var notes, related *string
	if err := scan(&mov.ID, &mov.ProductID, &mov.Quantity, &mov.Type, &notes, &related, &mov.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	mov.Notes = derefStr(notes)
	mov.RelatedInvoiceID = derefStr(related)
	return &mov, nil
}
