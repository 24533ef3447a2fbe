package dto

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// MovementFromEntity mapea un movimiento de dominio a su respuesta HTTP.
func MovementFromEntity(m *entity.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		MovementType: string(m.Type),
		Quantity:     m.Quantity,
		Reason:       m.Reason,
		MovementDate: m.MovementDate,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
		UpdatedAt:    m.UpdatedAt,
		UpdatedBy:    m.UpdatedBy,
	}
}

// MovementsFromEntities mapea una lista (nunca devuelve nil).
func MovementsFromEntities(list []*entity.InventoryMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, MovementFromEntity(m))
	}
	return out
}

// AlertFromEntity mapea una alerta de dominio a su respuesta HTTP.
func AlertFromEntity(a *entity.Alert) AlertResponse {
	return AlertResponse{
		ID:           a.ID,
		ProductID:    a.ProductID,
		ProductName:  a.ProductName,
		MovementID:   a.MovementID,
		AlertType:    string(a.Type),
		TriggeredAt:  a.TriggeredAt,
		IsRead:       a.IsRead,
		ThresholdMin: a.ThresholdMin,
		ThresholdMax: a.ThresholdMax,
		Balance:      a.Balance,
	}
}

// AlertsFromEntities mapea una lista (nunca devuelve nil).
func AlertsFromEntities(list []*entity.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, AlertFromEntity(a))
	}
	return out
}
