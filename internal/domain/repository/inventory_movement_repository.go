package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementFilter criterios de selección de movimientos. Campos vacíos/nil no filtran.
// From y To son inclusivos sobre MovementDate.
type MovementFilter struct {
	ProductID  string
	CategoryID string
	UnitID     string
	Type       entity.MovementType
	From       *time.Time
	To         *time.Time
}

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
// Los listados devuelven los movimientos en orden cronológico (MovementDate, CreatedAt, ID).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	Update(ctx context.Context, movement *entity.InventoryMovement) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	// ListByProduct historial completo de un producto hasta until (nil = sin corte).
	ListByProduct(ctx context.Context, productID string, until *time.Time) ([]*entity.InventoryMovement, error)
	ListByFilter(ctx context.Context, f MovementFilter) ([]*entity.InventoryMovement, error)
	// ListRecent los últimos limit movimientos, más recientes primero.
	ListRecent(ctx context.Context, limit int) ([]*entity.InventoryMovement, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
