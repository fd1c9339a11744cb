package billing

import (
	"context"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de facturación e inventario. Es la frontera de atomicidad del
// motor de confirmación: o se aplica todo (movimientos + contadores + estado)
// o no se aplica nada.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// StockLedger interfaz para integrar facturación con inventario.
// RegisterSaleInTx anexa un movimiento sale (delta = -quantity, con referencia
// a la factura) usando los repositorios del caller, es decir dentro de la misma
// transacción. Si retorna error el caller debe hacer rollback.
type StockLedger interface {
	RegisterSaleInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		productID string,
		quantity int64,
		now time.Time,
		invoiceID string,
	) error
}

// InvoiceItemForPDF línea de detalle enriquecida con el nombre del producto.
type InvoiceItemForPDF struct {
	entity.InvoiceItem
	ProductName string
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		customer *entity.Customer,
		items []InvoiceItemForPDF,
	) ([]byte, error)
}
