package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateStock es el único camino de escritura del contador materializado y
// solo debe invocarse dentro de la transacción del Stock Ledger.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	GetByIDForUpdate(id string) (*entity.Product, error)
	// Update modifica datos del catálogo (nombre, precio, umbral). Nunca el stock.
	Update(product *entity.Product) error
	// UpdateStock fija el contador materializado. Solo el Stock Ledger, en tx.
	UpdateStock(productID string, quantity int64) error
	List(limit, offset int) ([]*entity.Product, error)
}
