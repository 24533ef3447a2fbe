package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertType tipo de violación de umbral.
type AlertType string

const (
	AlertTypeUnderstock AlertType = "UNDERSTOCK"
	AlertTypeOverstock  AlertType = "OVERSTOCK"
)

// Alert registro persistente de una violación de umbral, emitido por un movimiento.
// MovementID queda vacío cuando el movimiento que la originó fue eliminado.
// ThresholdMin/ThresholdMax/Balance son la foto al momento de dispararse.
type Alert struct {
	ID           string
	ProductID    string
	ProductName  string
	MovementID   string
	Type         AlertType
	TriggeredAt  time.Time
	IsRead       bool
	ThresholdMin int
	ThresholdMax int
	Balance      decimal.Decimal
	CreatedAt    time.Time
	CreatedBy    string
	UpdatedAt    time.Time
	UpdatedBy    string
}
