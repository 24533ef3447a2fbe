package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry      MovementType = "ENTRY"      // entrada
	MovementTypeExit       MovementType = "EXIT"       // salida
	MovementTypeAdjustment MovementType = "ADJUSTMENT" // ajuste: fija el saldo al valor indicado
)

// MovementTypes orden canónico (histogramas, reportes).
var MovementTypes = []MovementType{MovementTypeEntry, MovementTypeExit, MovementTypeAdjustment}

// ParseMovementType normaliza (trim + mayúsculas) y valida el tipo.
func ParseMovementType(s string) (MovementType, bool) {
	t := MovementType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeAdjustment:
		return t, true
	}
	return "", false
}

// InventoryMovement representa un movimiento de inventario (entrada, salida o ajuste).
// Quantity siempre es > 0; el efecto sobre el saldo lo decide Type.
type InventoryMovement struct {
	ID           string
	ProductID    string
	ProductName  string // desnormalizado en lecturas (join con products)
	Type         MovementType
	Quantity     decimal.Decimal
	Reason       string
	MovementDate time.Time
	CreatedAt    time.Time
	CreatedBy    string
	UpdatedAt    time.Time
	UpdatedBy    string
}
