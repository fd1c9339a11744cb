package entity

import "time"

// Tipos de movimiento de stock. sale solo lo crea el motor de confirmación
// de facturas; los demás entran por la API de inventario.
const (
	MovementTypePurchase   = "purchase"
	MovementTypeReturn     = "return"
	MovementTypeLoss       = "loss"
	MovementTypeAdjustment = "adjustment"
	MovementTypeSale       = "sale"
)

// IsManualMovementType indica si el tipo puede registrarse desde la API.
func IsManualMovementType(t string) bool {
	switch t {
	case MovementTypePurchase, MovementTypeReturn, MovementTypeLoss, MovementTypeAdjustment:
		return true
	}
	return false
}

// StockMovement representa una entrada del libro de movimientos (append-only:
// nunca se actualiza ni se borra). El stock actual de un producto es la suma
// de los Quantity de todos sus movimientos.
type StockMovement struct {
	ID               string
	ProductID        string
	Quantity         int64  // delta con signo: positivo entrada, negativo salida
	Type             string // purchase, return, loss, adjustment, sale
	Notes            string
	RelatedInvoiceID string // solo para movimientos sale: factura que lo generó
	CreatedAt        time.Time
}
