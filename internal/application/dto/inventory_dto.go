package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// quantity es el delta con signo (negativo para salidas). El tipo sale no se
// acepta por la API: lo genera el motor de confirmación de facturas.
type RegisterMovementRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Type      string `json:"movement_type"` // purchase|return|loss|adjustment
	Notes     string `json:"notes,omitempty"`
}

// StockMovementResponse movimiento en respuestas.
type StockMovementResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	ProductName      string    `json:"product_name,omitempty"`
	ProductSKU       string    `json:"product_sku,omitempty"`
	Quantity         int64     `json:"quantity"`
	Type             string    `json:"movement_type"`
	Notes            string    `json:"notes,omitempty"`
	RelatedInvoiceID string    `json:"related_invoice_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// StockLevelResponse respuesta de GET /api/inventory/stock/:productID.
// LedgerTotal es el replay del libro; debe coincidir con StockQuantity.
type StockLevelResponse struct {
	ProductID     string `json:"product_id"`
	StockQuantity int64  `json:"stock_quantity"`
	LedgerTotal   int64  `json:"ledger_total"`
	Consistent    bool   `json:"consistent"`
}
