package entity

import "time"

// Customer representa un cliente (facturación). Datos de referencia:
// el núcleo transaccional solo los lee.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
