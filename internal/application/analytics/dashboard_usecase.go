// Package analytics contiene el caso de uso del dashboard: los cuatro
// contadores de la pantalla principal.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// DashboardUseCase calcula el resumen del dashboard.
//
// Fuente de datos: DashboardRepository (consultas read-only).
// No accede directamente a las tablas; delega todo en el repositorio.
type DashboardUseCase struct {
	repo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// GetSummary devuelve los cuatro contadores: total de productos, productos
// bajo el umbral de reorden, ingresos del mes (solo facturas confirmadas) y
// facturas pendientes (draft). Las cuatro consultas corren en paralelo.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type countResult struct {
		n   int
		err error
	}

	productsCh := make(chan countResult, 1)
	lowStockCh := make(chan countResult, 1)
	pendingCh := make(chan countResult, 1)

	go func() {
		n, err := uc.repo.CountProducts(ctx)
		productsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.repo.CountLowStock(ctx)
		lowStockCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.repo.CountInvoicesByStatus(ctx, entity.InvoiceStatusDraft)
		pendingCh <- countResult{n, err}
	}()

	revenue, revErr := uc.repo.SumConfirmedRevenue(ctx, monthStart)

	products := <-productsCh
	lowStock := <-lowStockCh
	pending := <-pendingCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: total de productos: %w", products.err)
	}
	if lowStock.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", lowStock.err)
	}
	if revErr != nil {
		return nil, fmt.Errorf("dashboard: ingresos del mes: %w", revErr)
	}
	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: facturas pendientes: %w", pending.err)
	}

	return &dto.DashboardSummaryDTO{
		TotalProducts:   products.n,
		LowStock:        lowStock.n,
		MonthlyRevenue:  revenue.Round(2),
		PendingInvoices: pending.n,
	}, nil
}
