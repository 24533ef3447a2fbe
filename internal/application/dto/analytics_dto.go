package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyCountDTO cantidad de movimientos de un día calendario.
type DailyCountDTO struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// TypeCountDTO cantidad de movimientos por tipo.
type TypeCountDTO struct {
	MovementType string `json:"movement_type"`
	Count        int    `json:"count"`
}

// StockPointDTO saldo al cierre de un día. ProductID vacío = suma de todos los productos.
type StockPointDTO struct {
	Date      string          `json:"date"`
	ProductID string          `json:"product_id,omitempty"`
	Stock     decimal.Decimal `json:"stock"`
}

// CategorySummaryDTO resumen por categoría (solo productos con saldo positivo).
type CategorySummaryDTO struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	TotalSKUs    int             `json:"total_skus"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// TopProductDTO producto rankeado por volumen de salidas.
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	TotalExit   decimal.Decimal `json:"total_exit"`
}

// DashboardMetricsDTO respuesta de GET /api/dashboard/metrics.
type DashboardMetricsDTO struct {
	TotalProducts       int             `json:"total_products"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	TotalOpenAlerts     int             `json:"total_open_alerts"`
	MovementsLast7Days  int             `json:"movements_last_7_days"`
}

// CountResponse conteo simple.
type CountResponse struct {
	Count int `json:"count"`
}

// ReportFilterRequest filtro de reportes. Fechas YYYY-MM-DD; DateFrom por defecto DateTo - 30 días.
type ReportFilterRequest struct {
	ProductID  string `query:"product_id"`
	CategoryID string `query:"category_id"`
	UnitID     string `query:"unit_id"`
	DateFrom   string `query:"date_from"`
	DateTo     string `query:"date_to"`
}

// ReportSummaryDTO respuesta de GET /api/reports/summary.
type ReportSummaryDTO struct {
	TotalSKUs           int             `json:"total_skus"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	TotalUnits          decimal.Decimal `json:"total_units"`
	AvgDailyConsumption decimal.Decimal `json:"avg_daily_consumption"`
	DaysOfStock         int64           `json:"days_of_stock"`
	DateFrom            string          `json:"date_from"`
	DateTo              string          `json:"date_to"`
}

// InventoryReportRowDTO fila del reporte de inventario (tabla, PDF y XLSX).
type InventoryReportRowDTO struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	CategoryName     string          `json:"category_name"`
	UnitName         string          `json:"unit_name"`
	Stock            decimal.Decimal `json:"stock"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalValue       decimal.Decimal `json:"total_value"`
	LastMovementDate *time.Time      `json:"last_movement_date,omitempty"`
}
