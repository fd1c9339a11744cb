package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO los cuatro contadores del dashboard.
type DashboardSummaryDTO struct {
	TotalProducts   int             `json:"total_products"`
	LowStock        int             `json:"low_stock"`
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
	PendingInvoices int             `json:"pending_invoices"`
}
