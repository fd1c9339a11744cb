package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// TestInvoiceStatus_TablaDeTransiciones recorre el producto cartesiano de
// estados y verifica la tabla completa: desde draft solo se puede ir a
// confirmed o void; confirmed y void son terminales.
func TestInvoiceStatus_TablaDeTransiciones(t *testing.T) {
	cases := []struct {
		from    entity.InvoiceStatus
		to      entity.InvoiceStatus
		allowed bool
	}{
		{entity.InvoiceStatusDraft, entity.InvoiceStatusConfirmed, true},
		{entity.InvoiceStatusDraft, entity.InvoiceStatusVoid, true},
		{entity.InvoiceStatusDraft, entity.InvoiceStatusDraft, false},
		{entity.InvoiceStatusConfirmed, entity.InvoiceStatusDraft, false},
		{entity.InvoiceStatusConfirmed, entity.InvoiceStatusVoid, false},
		{entity.InvoiceStatusConfirmed, entity.InvoiceStatusConfirmed, false},
		{entity.InvoiceStatusVoid, entity.InvoiceStatusDraft, false},
		{entity.InvoiceStatusVoid, entity.InvoiceStatusConfirmed, false},
		{entity.InvoiceStatusVoid, entity.InvoiceStatusVoid, false},
	}
	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "transición %s -> %s", tc.from, tc.to)
	}
}

// TestInvoiceStatus_EstadoDesconocido un estado fuera de la tabla no es válido
// y no permite ninguna transición.
func TestInvoiceStatus_EstadoDesconocido(t *testing.T) {
	unknown := entity.InvoiceStatus("pagada")
	assert.False(t, unknown.IsValid())
	assert.False(t, unknown.CanTransitionTo(entity.InvoiceStatusConfirmed))
}

// TestProduct_BelowReorderLevel la alerta de stock bajo compara valores
// numéricos, no nombres de columna.
func TestProduct_BelowReorderLevel(t *testing.T) {
	p := &entity.Product{StockQuantity: 4, MinStockLevel: 5}
	assert.True(t, p.BelowReorderLevel())

	p.StockQuantity = 5
	assert.False(t, p.BelowReorderLevel(), "igual al umbral no es stock bajo")
}
