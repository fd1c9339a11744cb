package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// InvoiceSummary fila de listado: cabecera más el nombre del cliente.
type InvoiceSummary struct {
	Invoice      entity.Invoice
	CustomerName string
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	// GetByIDForUpdate bloquea la fila de la factura (SELECT FOR UPDATE);
	// serializa confirmaciones concurrentes sobre la misma factura.
	GetByIDForUpdate(id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	// UpdateStatus hace compare-and-swap del estado: solo escribe si el estado
	// actual es `from`. Devuelve false si otra transacción ganó la transición.
	UpdateStatus(id string, from, to entity.InvoiceStatus) (bool, error)
	List(limit, offset int) ([]*InvoiceSummary, error)
}
