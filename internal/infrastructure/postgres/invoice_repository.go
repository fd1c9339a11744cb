package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, invoice_number, customer_id, issue_date, due_date, status, subtotal, tax, total, notes, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, invoice_number, customer_id, issue_date, due_date, status, subtotal, tax, total, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Number, invoice.CustomerID, invoice.IssueDate, invoice.DueDate,
		string(invoice.Status), invoice.Subtotal, invoice.Tax, invoice.Total,
		nullIfEmpty(invoice.Notes), invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ProductID, item.Quantity, item.UnitPrice, item.Total,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate obtiene la factura y bloquea la fila (SELECT FOR UPDATE).
// Serializa confirmaciones concurrentes sobre la misma factura.
func (r *InvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *InvoiceRepo) scanOne(query string, arg any) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	var notes *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&inv.ID, &inv.Number, &inv.CustomerID, &inv.IssueDate, &inv.DueDate,
		&status, &inv.Subtotal, &inv.Tax, &inv.Total, &notes,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.Status = entity.InvoiceStatus(status)
	inv.Notes = derefStr(notes)
	return &inv, nil
}

// GetItemsByInvoiceID obtiene todas las líneas de una factura.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, quantity, unit_price, total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var item entity.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// UpdateStatus compare-and-swap del estado: solo escribe si el estado actual
// es `from`. Devuelve false si ninguna fila cambió (otro caller ganó la
// transición o la factura no existe).
func (r *InvoiceRepo) UpdateStatus(id string, from, to entity.InvoiceStatus) (bool, error) {
	query := `UPDATE invoices SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`
	cmd, err := r.q.Exec(context.Background(), query, id, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("update invoice status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// List lista facturas con el nombre del cliente, la más reciente primero.
func (r *InvoiceRepo) List(limit, offset int) ([]*repository.InvoiceSummary, error) {
	query := `
		SELECT i.id, i.invoice_number, i.customer_id, i.issue_date, i.due_date,
		       i.status, i.subtotal, i.tax, i.total, i.notes, i.created_at, i.updated_at,
		       c.name
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		ORDER BY i.created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*repository.InvoiceSummary
	for rows.Next() {
		var s repository.InvoiceSummary
		var status string
		var notes *string
		if err := rows.Scan(
			&s.Invoice.ID, &s.Invoice.Number, &s.Invoice.CustomerID, &s.Invoice.IssueDate, &s.Invoice.DueDate,
			&status, &s.Invoice.Subtotal, &s.Invoice.Tax, &s.Invoice.Total, &notes,
			&s.Invoice.CreatedAt, &s.Invoice.UpdatedAt, &s.CustomerName,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		s.Invoice.Status = entity.InvoiceStatus(status)
		s.Invoice.Notes = derefStr(notes)
		list = append(list, &s)
	}
	return list, rows.Err()
}
