package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateInvoiceRequest body para POST /api/invoices. Crea un borrador;
// el stock no se toca hasta confirmar.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id"`
	DueDate    string               `json:"due_date"` // YYYY-MM-DD, no anterior a la fecha de emisión
	Number     string               `json:"invoice_number,omitempty"` // opcional; si va vacío se genera
	Notes      string               `json:"notes,omitempty"`
	Items      []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de factura. Si unit_price va en cero se toma
// el precio actual del producto (snapshot).
type InvoiceItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price,omitempty"`
}

// InvoiceResponse factura con detalle.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	Number       string                `json:"invoice_number"`
	CustomerID   string                `json:"customer_id"`
	CustomerName string                `json:"customer_name,omitempty"`
	IssueDate    string                `json:"issue_date"` // YYYY-MM-DD
	DueDate      string                `json:"due_date"`
	Status       string                `json:"status"` // draft|confirmed|void
	Subtotal     decimal.Decimal       `json:"subtotal"`
	Tax          decimal.Decimal       `json:"tax"`
	Total        decimal.Decimal       `json:"total"`
	Notes        string                `json:"notes,omitempty"`
	Items        []InvoiceItemResponse `json:"items"`
}

// InvoiceItemResponse línea de detalle en la respuesta.
type InvoiceItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// InvoiceSummaryResponse fila del listado de facturas (sin líneas).
type InvoiceSummaryResponse struct {
	ID           string          `json:"id"`
	Number       string          `json:"invoice_number"`
	CustomerName string          `json:"customer_name"`
	IssueDate    string          `json:"issue_date"`
	DueDate      string          `json:"due_date"`
	Status       string          `json:"status"`
	Total        decimal.Decimal `json:"total"`
}
