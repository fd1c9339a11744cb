package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado del ciclo de vida de una factura.
type InvoiceStatus string

// Estados de la factura. draft es el único estado no terminal.
const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusConfirmed InvoiceStatus = "confirmed"
	InvoiceStatusVoid      InvoiceStatus = "void"
)

// invoiceTransitions tabla exhaustiva de transiciones permitidas.
// confirmed y void son terminales e inmutables.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:     {InvoiceStatusConfirmed, InvoiceStatusVoid},
	InvoiceStatusConfirmed: {},
	InvoiceStatusVoid:      {},
}

// IsValid indica si el estado es uno de los conocidos.
func (s InvoiceStatus) IsValid() bool {
	_, ok := invoiceTransitions[s]
	return ok
}

// CanTransitionTo valida la transición contra la tabla central.
// Los handlers y casos de uso no comparan estados por su cuenta.
func (s InvoiceStatus) CanTransitionTo(to InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Invoice representa la cabecera de una factura.
// Invariante: Total == Subtotal + Tax, y Subtotal == suma de los totales de línea.
type Invoice struct {
	ID         string
	Number     string // número de factura, único
	CustomerID string
	IssueDate  time.Time
	DueDate    time.Time
	Status     InvoiceStatus
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
