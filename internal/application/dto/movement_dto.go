package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements (y PUT para actualizar).
type RegisterMovementRequest struct {
	ProductID    string          `json:"product_id"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason,omitempty"`
}

// MovementResponse movimiento persistido. Alert viene poblado si la escritura disparó una alerta.
type MovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason,omitempty"`
	MovementDate time.Time       `json:"movement_date"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
	UpdatedBy    string          `json:"updated_by,omitempty"`
	Alert        *AlertResponse  `json:"alert,omitempty"`
	// al reasignar el movimiento, alerta del producto que lo perdió
	PreviousProductAlert *AlertResponse `json:"previous_product_alert,omitempty"`
}

// MovementListRequest filtros de GET /api/inventory/movements.
// Sort con formato "campo,dir" (ej: "quantity,asc"); por defecto "movement_date,desc".
type MovementListRequest struct {
	ProductID    string `query:"product_id"`
	DateFrom     string `query:"date_from"`
	DateTo       string `query:"date_to"`
	MovementType string `query:"movement_type"`
	Search       string `query:"search"`
	Sort         string `query:"sort"`
	Page         int    `query:"page"`
	Size         int    `query:"size"`
}

// MovementPageResponse página de movimientos.
type MovementPageResponse struct {
	Items []MovementResponse `json:"items"`
	PageResponse
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un producto
// cuyo saldo está por debajo de su umbral mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	ThresholdMin      int             `json:"threshold_min"`
	ThresholdMax      int             `json:"threshold_max"`
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"` // ThresholdMax - CurrentStock
	UnitPrice         decimal.Decimal `json:"unit_price"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"` // SuggestedOrderQty * UnitPrice
	DeficitPct        decimal.Decimal `json:"deficit_pct"`    // % bajo el mínimo
	ConsumedInWindow  decimal.Decimal `json:"consumed_in_window"`
	Priority          int             `json:"priority"` // 1 = más urgente
}
