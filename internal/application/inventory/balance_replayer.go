package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// BalanceReplayer deriva el saldo de un producto desde su historial de movimientos.
// No valida la existencia del producto: sin historial el saldo es cero.
type BalanceReplayer struct {
	movRepo repository.InventoryMovementRepository
	metrics Metrics
}

// NewBalanceReplayer construye el replayer sobre el repositorio dado (pool o tx).
func NewBalanceReplayer(movRepo repository.InventoryMovementRepository, metrics Metrics) *BalanceReplayer {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &BalanceReplayer{movRepo: movRepo, metrics: metrics}
}

// WithRepository devuelve un replayer que lee del repositorio indicado (típicamente el de la tx).
func (r *BalanceReplayer) WithRepository(movRepo repository.InventoryMovementRepository) *BalanceReplayer {
	return &BalanceReplayer{movRepo: movRepo, metrics: r.metrics}
}

// ComputeBalance saldo actual (cutoff nil) o al corte indicado (MovementDate <= cutoff).
func (r *BalanceReplayer) ComputeBalance(ctx context.Context, productID string, cutoff *time.Time) (decimal.Decimal, error) {
	start := time.Now()
	defer func() { r.metrics.ObserveReplay(time.Since(start)) }()

	movs, err := r.movRepo.ListByProduct(ctx, productID, cutoff)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listar movimientos del producto: %w: %w", domain.ErrStoreFailure, err)
	}
	if cutoff != nil {
		return inventory.ReplayUntil(movs, *cutoff), nil
	}
	return inventory.Replay(movs), nil
}
