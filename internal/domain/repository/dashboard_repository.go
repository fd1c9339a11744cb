package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// DashboardRepository define las consultas de solo lectura del dashboard.
// Las implementaciones no modifican datos.
type DashboardRepository interface {
	// CountProducts total de productos en el catálogo.
	CountProducts(ctx context.Context) (int, error)
	// CountLowStock productos con stock_quantity < min_stock_level
	// (comparación numérica entre columnas).
	CountLowStock(ctx context.Context) (int, error)
	// SumConfirmedRevenue suma de totales de facturas confirmadas creadas
	// desde la fecha dada. COALESCE a cero si no hay facturas.
	SumConfirmedRevenue(ctx context.Context, since time.Time) (decimal.Decimal, error)
	// CountInvoicesByStatus facturas en el estado dado.
	CountInvoicesByStatus(ctx context.Context, status entity.InvoiceStatus) (int, error)
}
