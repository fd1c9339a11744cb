package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ConfirmInvoiceUseCase el motor de confirmación: transiciona una factura de
// draft a confirmed descontando el stock de todas sus líneas como una sola
// unidad atómica. Dos confirmaciones concurrentes de la misma factura
// producen exactamente un éxito y un ErrInvalidState; nunca un doble
// descuento.
type ConfirmInvoiceUseCase struct {
	txRunner     TxRunner
	stockLedger  StockLedger
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewConfirmInvoiceUseCase construye el caso de uso.
func NewConfirmInvoiceUseCase(
	txRunner TxRunner,
	stockLedger StockLedger,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
) *ConfirmInvoiceUseCase {
	return &ConfirmInvoiceUseCase{
		txRunner:     txRunner,
		stockLedger:  stockLedger,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// Confirm transiciona la factura draft -> confirmed. Dentro de una única
// transacción:
//
//  1. Bloquea la fila de la factura y valida que siga en draft.
//  2. Recorre las líneas en orden ascendente de product_id (los bloqueos de
//     producto se adquieren siempre en ese orden para evitar deadlocks entre
//     confirmaciones concurrentes con productos en común).
//  3. Por cada línea registra un movimiento sale (delta = -cantidad) vía el
//     Stock Ledger; si alguna línea no tiene stock, todo se revierte y la
//     factura queda en draft — sin aplicación parcial.
//  4. Compare-and-swap del estado a confirmed.
func (uc *ConfirmInvoiceUseCase) Confirm(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	if invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var inv *entity.Invoice
	var items []*entity.InvoiceItem

	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		inv, err = invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if !inv.Status.CanTransitionTo(entity.InvoiceStatusConfirmed) {
			return fmt.Errorf("%w: la factura está en estado %s", domain.ErrInvalidState, inv.Status)
		}

		items, err = invoiceRepo.GetItemsByInvoiceID(invoiceID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: la factura no tiene líneas", domain.ErrInvalidInput)
		}

		// Orden total por product_id: evita deadlocks con otras confirmaciones
		ordered := make([]*entity.InvoiceItem, len(items))
		copy(ordered, items)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })

		for _, item := range ordered {
			if err := uc.stockLedger.RegisterSaleInTx(
				movRepo, productRepo,
				item.ProductID, item.Quantity, now, inv.ID,
			); err != nil {
				return err
			}
		}

		updated, err := invoiceRepo.UpdateStatus(invoiceID, entity.InvoiceStatusDraft, entity.InvoiceStatusConfirmed)
		if err != nil {
			return err
		}
		if !updated {
			return fmt.Errorf("%w: la factura ya no está en draft", domain.ErrInvalidState)
		}
		inv.Status = entity.InvoiceStatusConfirmed
		inv.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	customerName := ""
	if customer, err := uc.customerRepo.GetByID(inv.CustomerID); err == nil && customer != nil {
		customerName = customer.Name
	}
	return toInvoiceResponse(inv, customerName, items), nil
}

// Void anula una factura: draft -> void. No genera movimientos de stock.
// Desde cualquier otro estado responde ErrInvalidState.
func (uc *ConfirmInvoiceUseCase) Void(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	if invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var inv *entity.Invoice

	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.ProductRepository,
		_ repository.StockMovementRepository,
	) error {
		var err error
		inv, err = invoiceRepo.GetByIDForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if !inv.Status.CanTransitionTo(entity.InvoiceStatusVoid) {
			return fmt.Errorf("%w: la factura está en estado %s", domain.ErrInvalidState, inv.Status)
		}
		updated, err := invoiceRepo.UpdateStatus(invoiceID, entity.InvoiceStatusDraft, entity.InvoiceStatusVoid)
		if err != nil {
			return err
		}
		if !updated {
			return fmt.Errorf("%w: la factura ya no está en draft", domain.ErrInvalidState)
		}
		inv.Status = entity.InvoiceStatusVoid
		inv.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	items, err := uc.invoiceRepo.GetItemsByInvoiceID(invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, "", items), nil
}
