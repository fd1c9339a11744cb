package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea de una factura.
// UnitPrice es una foto del precio al momento de crear el borrador:
// cambios posteriores del precio del producto no la afectan.
type InvoiceItem struct {
	ID        string
	InvoiceID string
	ProductID string
	Quantity  int64           // siempre positiva
	UnitPrice decimal.Decimal // snapshot del precio
	Total     decimal.Decimal // Quantity × UnitPrice
}
