// Package testutil provee implementaciones en memoria de los puertos de
// persistencia, con semántica transaccional (snapshot y rollback) para poder
// probar los casos de uso sin una base de datos.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/inventory"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Store estado compartido de los repositorios en memoria. Los valores se
// guardan por copia para que el snapshot transaccional sea trivial.
type Store struct {
	mu sync.Mutex

	products     map[string]entity.Product
	customers    map[string]entity.Customer
	invoices     map[string]entity.Invoice
	invoiceOrder []string
	items        map[string][]entity.InvoiceItem
	movements    []entity.StockMovement
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]entity.Product),
		customers: make(map[string]entity.Customer),
		invoices:  make(map[string]entity.Invoice),
		items:     make(map[string][]entity.InvoiceItem),
	}
}

// snapshot copia profunda del estado, para rollback.
type snapshot struct {
	products     map[string]entity.Product
	customers    map[string]entity.Customer
	invoices     map[string]entity.Invoice
	invoiceOrder []string
	items        map[string][]entity.InvoiceItem
	movements    []entity.StockMovement
}

func (s *Store) takeSnapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		products:     make(map[string]entity.Product, len(s.products)),
		customers:    make(map[string]entity.Customer, len(s.customers)),
		invoices:     make(map[string]entity.Invoice, len(s.invoices)),
		invoiceOrder: append([]string(nil), s.invoiceOrder...),
		items:        make(map[string][]entity.InvoiceItem, len(s.items)),
		movements:    append([]entity.StockMovement(nil), s.movements...),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.customers {
		snap.customers[k] = v
	}
	for k, v := range s.invoices {
		snap.invoices[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = append([]entity.InvoiceItem(nil), v...)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.customers = snap.customers
	s.invoices = snap.invoices
	s.invoiceOrder = snap.invoiceOrder
	s.items = snap.items
	s.movements = snap.movements
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ billing.TxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks con semántica de transacción sobre un Store:
// las transacciones se serializan con un mutex y, si el callback falla, el
// estado se restaura al snapshot previo (rollback todo o nada).
type TxRunner struct {
	store *Store
	txMu  sync.Mutex
}

// NewTxRunner construye el runner sobre el store dado.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run transacción del libro de inventario.
func (r *TxRunner) Run(_ context.Context, fn func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	snap := r.store.takeSnapshot()
	if err := fn(NewStockMovementRepo(r.store), NewProductRepo(r.store)); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// RunBilling transacción de facturación.
func (r *TxRunner) RunBilling(_ context.Context, fn func(invoiceRepo repository.InvoiceRepository, productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	snap := r.store.takeSnapshot()
	if err := fn(NewInvoiceRepo(r.store), NewProductRepo(r.store), NewStockMovementRepo(r.store)); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// ── ProductRepo ───────────────────────────────────────────────────────────────

var _ repository.ProductRepository = (*ProductRepo)(nil)

type ProductRepo struct{ s *Store }

func NewProductRepo(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	// Las transacciones ya están serializadas por el TxRunner.
	return r.GetByID(id)
}

func (r *ProductRepo) Update(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	// Nunca el stock: conserva el contador existente.
	updated := *product
	updated.StockQuantity = current.StockQuantity
	r.s.products[product.ID] = updated
	return nil
}

func (r *ProductRepo) UpdateStock(productID string, quantity int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = quantity
	p.UpdatedAt = time.Now()
	r.s.products[productID] = p
	return nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name)
	})
	return pageProducts(all, limit, offset), nil
}

func pageProducts(all []entity.Product, limit, offset int) []*entity.Product {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]*entity.Product, 0, end-offset)
	for i := offset; i < end; i++ {
		p := all[i]
		out = append(out, &p)
	}
	return out
}

// ── CustomerRepo ──────────────────────────────────────────────────────────────

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

type CustomerRepo struct{ s *Store }

func NewCustomerRepo(s *Store) *CustomerRepo { return &CustomerRepo{s: s} }

func (r *CustomerRepo) Create(customer *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.Email == customer.Email {
			return domain.ErrDuplicate
		}
	}
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) GetByEmail(email string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.Email == email {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		return strings.ToLower(all[i].Name) < strings.ToLower(all[j].Name)
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]*entity.Customer, 0, end-offset)
	for i := offset; i < end; i++ {
		c := all[i]
		out = append(out, &c)
	}
	return out, nil
}

// ── InvoiceRepo ───────────────────────────────────────────────────────────────

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

type InvoiceRepo struct{ s *Store }

func NewInvoiceRepo(s *Store) *InvoiceRepo { return &InvoiceRepo{s: s} }

func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.Number == invoice.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[invoice.ID] = *invoice
	r.s.invoiceOrder = append(r.s.invoiceOrder, invoice.ID)
	return nil
}

func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.items[item.InvoiceID] = append(r.s.items[item.InvoiceID], *item)
	return nil
}

func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *InvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	// Las transacciones ya están serializadas por el TxRunner.
	return r.GetByID(id)
}

func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.items[invoiceID]
	out := make([]*entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		cp := it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *InvoiceRepo) UpdateStatus(id string, from, to entity.InvoiceStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.Status != from {
		return false, nil
	}
	inv.Status = to
	inv.UpdatedAt = time.Now()
	r.s.invoices[id] = inv
	return true, nil
}

func (r *InvoiceRepo) List(limit, offset int) ([]*repository.InvoiceSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// La más reciente primero: orden inverso de inserción.
	var out []*repository.InvoiceSummary
	skipped := 0
	for i := len(r.s.invoiceOrder) - 1; i >= 0 && len(out) < limit; i-- {
		if skipped < offset {
			skipped++
			continue
		}
		inv := r.s.invoices[r.s.invoiceOrder[i]]
		s := &repository.InvoiceSummary{Invoice: inv}
		if c, ok := r.s.customers[inv.CustomerID]; ok {
			s.CustomerName = c.Name
		}
		out = append(out, s)
	}
	return out, nil
}

// ── StockMovementRepo ─────────────────────────────────────────────────────────

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

type StockMovementRepo struct{ s *Store }

func NewStockMovementRepo(s *Store) *StockMovementRepo { return &StockMovementRepo{s: s} }

func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r *StockMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	skipped := 0
	for i := len(r.s.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.movements[i].ProductID != productID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		mov := r.s.movements[i]
		out = append(out, &mov)
	}
	return out, nil
}

func (r *StockMovementRepo) List(limit, offset int) ([]*repository.MovementWithProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*repository.MovementWithProduct
	skipped := 0
	for i := len(r.s.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if skipped < offset {
			skipped++
			continue
		}
		mov := r.s.movements[i]
		mw := &repository.MovementWithProduct{Movement: mov}
		if p, ok := r.s.products[mov.ProductID]; ok {
			mw.ProductName = p.Name
			mw.ProductSKU = p.SKU
		}
		out = append(out, mw)
	}
	return out, nil
}

func (r *StockMovementRepo) SumDeltas(productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for _, mov := range r.s.movements {
		if mov.ProductID == productID {
			total += mov.Quantity
		}
	}
	return total, nil
}

// ── DashboardRepo ─────────────────────────────────────────────────────────────

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

type DashboardRepo struct{ s *Store }

func NewDashboardRepo(s *Store) *DashboardRepo { return &DashboardRepo{s: s} }

func (r *DashboardRepo) CountProducts(context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.products), nil
}

func (r *DashboardRepo) CountLowStock(context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.products {
		if p.StockQuantity < p.MinStockLevel {
			n++
		}
	}
	return n, nil
}

func (r *DashboardRepo) SumConfirmedRevenue(_ context.Context, since time.Time) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, inv := range r.s.invoices {
		if inv.Status == entity.InvoiceStatusConfirmed && !inv.IssueDate.Before(since) {
			total = total.Add(inv.Total)
		}
	}
	return total, nil
}

func (r *DashboardRepo) CountInvoicesByStatus(_ context.Context, status entity.InvoiceStatus) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, inv := range r.s.invoices {
		if inv.Status == status {
			n++
		}
	}
	return n, nil
}
