package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// dueDateLayout formato de fecha de los requests (YYYY-MM-DD).
const dueDateLayout = "2006-01-02"

// CreateInvoiceUseCase arma borradores de factura: valida cliente, fechas y
// líneas, toma el snapshot de precios y persiste cabecera y líneas en una sola
// transacción. No toca el stock: eso es exclusivo del motor de confirmación.
type CreateInvoiceUseCase struct {
	txRunner     TxRunner
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
	taxPolicy    TaxPolicy
}

// NewCreateInvoiceUseCase construye el caso de uso. taxPolicy nil equivale a
// la política de impuesto cero.
func NewCreateInvoiceUseCase(
	txRunner TxRunner,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	taxPolicy TaxPolicy,
) *CreateInvoiceUseCase {
	if taxPolicy == nil {
		taxPolicy = ZeroTaxPolicy{}
	}
	return &CreateInvoiceUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		taxPolicy:    taxPolicy,
	}
}

// CreateDraft crea una factura en estado draft con sus líneas (todo o nada).
// Cada línea congela el precio unitario vigente del producto; cambios
// posteriores de precio no afectan el borrador.
func (uc *CreateInvoiceUseCase) CreateDraft(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	issueDay := now.Truncate(24 * time.Hour)
	dueDate, err := time.Parse(dueDateLayout, in.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: due_date debe ser YYYY-MM-DD", domain.ErrInvalidInput)
	}
	// Política: no se aceptan borradores ya vencidos al momento de emitirse
	if dueDate.Before(issueDay) {
		return nil, fmt.Errorf("%w: due_date anterior a la fecha de emisión", domain.ErrInvalidInput)
	}

	// Validar líneas y congelar precios (lecturas fuera de la tx, como el resto
	// de validaciones; la unicidad del número la garantiza la BD)
	items := make([]*entity.InvoiceItem, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, line := range in.Items {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cada línea requiere product_id y cantidad positiva", domain.ErrInvalidInput)
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		unitPrice := line.UnitPrice
		if unitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit_price negativo", domain.ErrInvalidInput)
		}
		if unitPrice.IsZero() {
			unitPrice = product.Price // snapshot del precio vigente
		}
		lineTotal := unitPrice.Mul(decimal.NewFromInt(line.Quantity))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, &entity.InvoiceItem{
			ID:        uuid.New().String(),
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			Total:     lineTotal,
		})
	}

	tax := uc.taxPolicy.ComputeTax(subtotal, customer)

	number := in.Number
	if number == "" {
		number = fmt.Sprintf("INV-%d", now.UnixMilli())
	}

	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		Number:     number,
		CustomerID: in.CustomerID,
		IssueDate:  now,
		DueDate:    dueDate,
		Status:     entity.InvoiceStatusDraft,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal.Add(tax),
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Cabecera y líneas en una sola transacción (ambas o ninguna)
	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.ProductRepository,
		_ repository.StockMovementRepository,
	) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range items {
			item.InvoiceID = inv.ID
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv, customer.Name, items), nil
}

// GetInvoice obtiene una factura por ID con su detalle completo.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if customer, err := uc.customerRepo.GetByID(inv.CustomerID); err == nil && customer != nil {
		customerName = customer.Name
	}
	return toInvoiceResponse(inv, customerName, items), nil
}

// ListInvoices lista facturas con el nombre del cliente, la más reciente primero.
func (uc *CreateInvoiceUseCase) ListInvoices(ctx context.Context, limit, offset int) ([]*dto.InvoiceSummaryResponse, error) {
	rows, err := uc.invoiceRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, &dto.InvoiceSummaryResponse{
			ID:           r.Invoice.ID,
			Number:       r.Invoice.Number,
			CustomerName: r.CustomerName,
			IssueDate:    r.Invoice.IssueDate.Format(dueDateLayout),
			DueDate:      r.Invoice.DueDate.Format(dueDateLayout),
			Status:       string(r.Invoice.Status),
			Total:        r.Invoice.Total,
		})
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.Invoice, customerName string, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		CustomerID:   inv.CustomerID,
		CustomerName: customerName,
		IssueDate:    inv.IssueDate.Format(dueDateLayout),
		DueDate:      inv.DueDate.Format(dueDateLayout),
		Status:       string(inv.Status),
		Subtotal:     inv.Subtotal,
		Tax:          inv.Tax,
		Total:        inv.Total,
		Notes:        inv.Notes,
		Items:        make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
	}
	return resp
}
