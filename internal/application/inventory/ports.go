package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que escritura, replay y alerta sean una sola unidad de trabajo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		alertRepo repository.AlertRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// ProductLocker serializa escrituras concurrentes sobre un mismo producto.
// Lock bloquea hasta obtener el candado o hasta que ctx expire; unlock es idempotente.
type ProductLocker interface {
	Lock(ctx context.Context, productID string) (unlock func(), err error)
}

// AlertNotifier entrega una alerta ya confirmada a canales externos (email, eventos).
type AlertNotifier interface {
	NotifyAlert(ctx context.Context, alert *entity.Alert) error
}

// Metrics contadores del motor de inventario.
type Metrics interface {
	MovementWritten(t entity.MovementType)
	AlertEmitted(t entity.AlertType)
	ObserveReplay(d time.Duration)
}

// NoopLocker política "none": sin serialización por producto.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

type nopMetrics struct{}

func (nopMetrics) MovementWritten(entity.MovementType) {}
func (nopMetrics) AlertEmitted(entity.AlertType)       {}
func (nopMetrics) ObserveReplay(time.Duration)         {}

// NopMetrics implementación vacía de Metrics.
func NopMetrics() Metrics { return nopMetrics{} }
