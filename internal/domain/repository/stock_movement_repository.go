package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// MovementWithProduct fila de listado: movimiento más nombre y SKU del producto.
type MovementWithProduct struct {
	Movement    entity.StockMovement
	ProductName string
	ProductSKU  string
}

// StockMovementRepository define el puerto del libro de movimientos.
// El libro es append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	List(limit, offset int) ([]*MovementWithProduct, error)
	// SumDeltas devuelve la suma de los deltas de un producto (replay del libro).
	// Debe coincidir siempre con el contador materializado del producto.
	SumDeltas(productID string) (int64, error)
}
