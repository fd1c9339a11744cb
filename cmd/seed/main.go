// seed genera un script SQL con datos de demostración (productos y clientes)
// para ambientes de desarrollo.
//
// Uso: go run ./cmd/seed
// Escribe: internal/infrastructure/postgres/migrations/002_seed_demo.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type demoProduct struct {
	sku, name, description string
	price                  decimal.Decimal
	stock, minStock        int64
}

type demoCustomer struct {
	name, email string
}

var demoProducts = []demoProduct{
	{"LAP-001", "Portátil 14\" i5", "Portátil de oficina, 16GB RAM", decimal.NewFromInt(2450000), 12, 3},
	{"MON-001", "Monitor 24\" FHD", "Panel IPS, 75Hz", decimal.NewFromInt(620000), 25, 5},
	{"TEC-001", "Teclado mecánico", "Switches rojos, distribución ES", decimal.NewFromInt(185000), 40, 10},
	{"MOU-001", "Mouse inalámbrico", "", decimal.NewFromInt(65000), 60, 15},
	{"CAB-HDMI", "Cable HDMI 2m", "", decimal.NewFromInt(22000), 120, 30},
	{"SSD-500", "SSD NVMe 500GB", "Lectura 3500MB/s", decimal.NewFromInt(280000), 18, 5},
}

var demoCustomers = []demoCustomer{
	{"Comercializadora La Esquina", "compras@laesquina.example.com"},
	{"Ferretería El Tornillo", "admin@eltornillo.example.com"},
	{"Distribuciones Andinas SAS", "facturacion@andinas.example.com"},
}

func main() {
	var b strings.Builder
	b.WriteString("-- Datos de demostración. Generado por cmd/seed, no editar a mano.\n\n")

	for _, p := range demoProducts {
		b.WriteString(fmt.Sprintf(
			"INSERT INTO products (id, sku, name, description, price, stock_quantity, min_stock_level)\n"+
				"VALUES ('%s', %s, %s, %s, %s, %d, %d)\nON CONFLICT (sku) DO NOTHING;\n\n",
			uuid.NewString(), quote(p.sku), quote(p.name), quote(p.description),
			p.price.StringFixed(2), p.stock, p.minStock,
		))
	}

	for _, c := range demoCustomers {
		b.WriteString(fmt.Sprintf(
			"INSERT INTO customers (id, name, email)\nVALUES ('%s', %s, %s)\nON CONFLICT (email) DO NOTHING;\n\n",
			uuid.NewString(), quote(c.name), quote(c.email),
		))
	}

	// El contador y el libro deben nacer consistentes: un movimiento de
	// ajuste inicial por cada producto sembrado con stock.
	b.WriteString("INSERT INTO stock_movements (id, product_id, quantity, movement_type, notes)\n")
	b.WriteString("SELECT gen_random_uuid(), id, stock_quantity, 'adjustment', 'carga inicial'\n")
	b.WriteString("FROM products\n")
	b.WriteString("WHERE stock_quantity <> 0\n")
	b.WriteString("  AND NOT EXISTS (SELECT 1 FROM stock_movements m WHERE m.product_id = products.id);\n")

	outPath := filepath.Join("internal", "infrastructure", "postgres", "migrations", "002_seed_demo.sql")
	if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir seed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seed generado: %s (%d productos, %d clientes)\n", outPath, len(demoProducts), len(demoCustomers))
}

// quote escapa comillas simples para SQL.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
