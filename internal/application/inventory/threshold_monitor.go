package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ThresholdMonitor recalcula el saldo tras cada escritura y registra una alerta por cada
// escritura que deja el producto fuera de [ThresholdMin, ThresholdMax].
// No deduplica: cada escritura que sigue violando agrega otra fila.
type ThresholdMonitor struct {
	replayer *BalanceReplayer
	now      func() time.Time
}

// NewThresholdMonitor construye el monitor.
func NewThresholdMonitor(replayer *BalanceReplayer) *ThresholdMonitor {
	return &ThresholdMonitor{replayer: replayer, now: time.Now}
}

// OnMovementWritten se ejecuta dentro de la transacción de la escritura. Devuelve la alerta
// creada o nil. Cualquier error debe abortar la transacción completa.
func (m *ThresholdMonitor) OnMovementWritten(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	alertRepo repository.AlertRepository,
	productRepo repository.ProductRepository,
	mov *entity.InventoryMovement,
	userID string,
) (*entity.Alert, error) {
	return m.CheckProduct(ctx, movRepo, alertRepo, productRepo, mov.ProductID, mov.ID, userID)
}

// CheckProduct evalúa productID tras una escritura del movimiento movementID. Sirve también
// para el producto que perdió un movimiento al reasignarlo.
func (m *ThresholdMonitor) CheckProduct(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	alertRepo repository.AlertRepository,
	productRepo repository.ProductRepository,
	productID, movementID, userID string,
) (*entity.Alert, error) {
	balance, err := m.replayer.WithRepository(movRepo).ComputeBalance(ctx, productID, nil)
	if err != nil {
		return nil, err
	}

	// Umbrales vigentes al momento de la escritura (misma tx)
	product, err := productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("leer umbrales: %w: %w", domain.ErrStoreFailure, err)
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}

	alertType, violated := inventory.Evaluate(balance, product.ThresholdMin, product.ThresholdMax)
	if !violated {
		return nil, nil
	}

	now := m.now()
	alert := &entity.Alert{
		ID:           uuid.New().String(),
		ProductID:    product.ID,
		ProductName:  product.Name,
		MovementID:   movementID,
		Type:         alertType,
		TriggeredAt:  now,
		ThresholdMin: product.ThresholdMin,
		ThresholdMax: product.ThresholdMax,
		Balance:      balance,
		CreatedAt:    now,
		CreatedBy:    userID,
		UpdatedAt:    now,
		UpdatedBy:    userID,
	}
	if err := alertRepo.Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("crear alerta: %w: %w", domain.ErrStoreFailure, err)
	}
	return alert, nil
}
