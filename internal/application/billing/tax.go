package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// TaxPolicy calcula el impuesto de una factura a partir del subtotal y el
// cliente. Es conectable: el núcleo no asume ningún régimen tributario.
type TaxPolicy interface {
	ComputeTax(subtotal decimal.Decimal, customer *entity.Customer) decimal.Decimal
}

// ZeroTaxPolicy la política por defecto: impuesto cero.
type ZeroTaxPolicy struct{}

// ComputeTax siempre devuelve cero.
func (ZeroTaxPolicy) ComputeTax(decimal.Decimal, *entity.Customer) decimal.Decimal {
	return decimal.Zero
}

// FlatRateTaxPolicy aplica una tasa plana sobre el subtotal (ej: 0.19 = 19%).
type FlatRateTaxPolicy struct {
	Rate decimal.Decimal
}

// ComputeTax devuelve subtotal × tasa, redondeado a 2 decimales.
func (p FlatRateTaxPolicy) ComputeTax(subtotal decimal.Decimal, _ *entity.Customer) decimal.Decimal {
	return subtotal.Mul(p.Rate).Round(2)
}
