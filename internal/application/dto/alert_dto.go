package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertResponse alerta de umbral.
type AlertResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	MovementID   string          `json:"movement_id,omitempty"`
	AlertType    string          `json:"alert_type"`
	TriggeredAt  time.Time       `json:"triggered_at"`
	IsRead       bool            `json:"is_read"`
	ThresholdMin int             `json:"threshold_min"`
	ThresholdMax int             `json:"threshold_max"`
	Balance      decimal.Decimal `json:"balance"`
}

// IncidentDTO episodio derivado (primera violación -> resolución). No se persiste.
type IncidentDTO struct {
	ProductID         string     `json:"product_id"`
	ProductName       string     `json:"product_name"`
	AlertType         string     `json:"alert_type"`
	OpenedAt          time.Time  `json:"opened_at"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	OpeningMovementID string     `json:"opening_movement_id"`
	AlertCount        int        `json:"alert_count"`
}

// MarkedReadResponse resultado de marcar alertas en bloque.
type MarkedReadResponse struct {
	Marked int `json:"marked"`
}

// UnreadCountResponse contador para el badge de notificaciones.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
