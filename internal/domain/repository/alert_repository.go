package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AlertRepository define el puerto de persistencia para alertas de umbral.
// Los listados devuelven las alertas más recientes primero (TriggeredAt desc).
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	ListUnread(ctx context.Context) ([]*entity.Alert, error)
	ListAll(ctx context.Context) ([]*entity.Alert, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Alert, error)
	// MarkRead marca como leídas las alertas indicadas; ids inexistentes se ignoran.
	MarkRead(ctx context.Context, ids ...string) (int, error)
	MarkAllRead(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
	// DetachMovement desvincula las alertas de un movimiento antes de eliminarlo.
	DetachMovement(ctx context.Context, movementID string) error
	CountUnread(ctx context.Context) (int, error)
}
