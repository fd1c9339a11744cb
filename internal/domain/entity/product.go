package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// StockQuantity es un contador materializado del libro de movimientos:
// solo el Stock Ledger lo muta, nunca se escribe directo desde otro componente.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Description   string
	Price         decimal.Decimal // precio de venta unitario
	StockQuantity int64           // contador materializado (= suma de movimientos)
	MinStockLevel int64           // umbral de reorden para la alerta del dashboard
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BelowReorderLevel indica si el producto está bajo su umbral de reorden.
// La comparación es numérica contra MinStockLevel.
func (p *Product) BelowReorderLevel() bool {
	return p.StockQuantity < p.MinStockLevel
}
