package inventory

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Incident tramo continuo del historial en que el saldo violó un umbral.
// ResolvedAt es nil si el producto sigue fuera de rango.
type Incident struct {
	ProductID         string
	Type              entity.AlertType
	OpenedAt          time.Time
	ResolvedAt        *time.Time
	OpeningMovementID string
	MovementIDs       []string // movimientos que mantuvieron la violación
}

// Incidents recorre el historial bajo los umbrales dados y agrupa las violaciones consecutivas.
// Un cambio de UNDERSTOCK a OVERSTOCK (o viceversa) cierra un incidente y abre otro.
func Incidents(productID string, movs []*entity.InventoryMovement, min, max int) []Incident {
	var (
		out     []Incident
		current *Incident
	)
	closeAt := func(t time.Time) {
		if current == nil {
			return
		}
		resolved := t
		current.ResolvedAt = &resolved
		out = append(out, *current)
		current = nil
	}

	balance := decimal.Zero
	for _, m := range chronological(movs) {
		balance = Step(balance, m)
		t, violated := Evaluate(balance, min, max)
		switch {
		case !violated:
			closeAt(m.MovementDate)
		case current != nil && current.Type == t:
			current.MovementIDs = append(current.MovementIDs, m.ID)
		default:
			closeAt(m.MovementDate)
			current = &Incident{
				ProductID:         productID,
				Type:              t,
				OpenedAt:          m.MovementDate,
				OpeningMovementID: m.ID,
				MovementIDs:       []string{m.ID},
			}
		}
	}
	if current != nil {
		out = append(out, *current)
	}
	return out
}
