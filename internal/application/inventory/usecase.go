package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// MovementUseCase registra, actualiza y elimina movimientos de forma transaccional.
// Cada escritura y su chequeo de umbrales corren en la misma transacción (Commit/Rollback),
// opcionalmente serializados por producto según la política de bloqueo.
type MovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.InventoryMovementRepository
	monitor  *ThresholdMonitor
	locker   ProductLocker
	rowLock  bool
	notifier AlertNotifier
	metrics  Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewMovementUseCase construye el caso de uso. locker, notifier y metrics pueden ser nil.
// rowLock activa SELECT ... FOR UPDATE sobre el producto dentro de la transacción.
func NewMovementUseCase(
	txRunner TxRunner,
	movRepo repository.InventoryMovementRepository,
	monitor *ThresholdMonitor,
	locker ProductLocker,
	rowLock bool,
	notifier AlertNotifier,
	metrics Metrics,
	log *logger.Logger,
) *MovementUseCase {
	if locker == nil {
		locker = NoopLocker{}
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &MovementUseCase{
		txRunner: txRunner,
		movRepo:  movRepo,
		monitor:  monitor,
		locker:   locker,
		rowLock:  rowLock,
		notifier: notifier,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj usado para MovementDate y auditoría.
func (uc *MovementUseCase) WithClock(now func() time.Time) *MovementUseCase {
	uc.now = now
	uc.monitor.now = now
	return uc
}

// MovementInputDTO entrada para registrar o reemplazar un movimiento.
type MovementInputDTO struct {
	UserID    string
	ProductID string
	Type      string
	Quantity  decimal.Decimal
	Reason    string
}

func (in MovementInputDTO) validate() (entity.MovementType, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return "", fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	mt, ok := entity.ParseMovementType(in.Type)
	if !ok {
		return "", fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	if !in.Quantity.IsPositive() {
		return "", fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	return mt, nil
}

// RegisterMovement persiste el movimiento con MovementDate = ahora y ejecuta el monitor de umbrales.
// Si la escritura dejó el producto fuera de rango, la respuesta incluye la alerta creada.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*dto.MovementResponse, error) {
	mt, err := input.validate()
	if err != nil {
		return nil, err
	}

	unlock, err := uc.lockProducts(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := uc.now()
	mov := &entity.InventoryMovement{
		ID:           uuid.New().String(),
		ProductID:    input.ProductID,
		Type:         mt,
		Quantity:     input.Quantity,
		Reason:       strings.TrimSpace(input.Reason),
		MovementDate: now,
		CreatedAt:    now,
		CreatedBy:    input.UserID,
		UpdatedAt:    now,
		UpdatedBy:    input.UserID,
	}

	var alert *entity.Alert
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		alertRepo repository.AlertRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := uc.loadProduct(ctx, productRepo, input.ProductID)
		if err != nil {
			return err
		}
		mov.ProductName = product.Name
		if err := movRepo.Create(ctx, mov); err != nil {
			return fmt.Errorf("crear movimiento: %w: %w", domain.ErrStoreFailure, err)
		}
		alert, err = uc.monitor.OnMovementWritten(ctx, movRepo, alertRepo, productRepo, mov, input.UserID)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", input.ProductID).Str("type", string(mt)).Msg("registro de movimiento abortado")
		return nil, err
	}

	uc.afterCommit(ctx, mov, alert)
	return toResponse(mov, alert), nil
}

// UpdateMovement reemplaza producto, tipo, cantidad y motivo conservando MovementDate,
// y vuelve a ejecutar el monitor sobre el producto resultante en la misma transacción.
// Si el movimiento cambió de producto, el producto anterior también se evalúa.
func (uc *MovementUseCase) UpdateMovement(ctx context.Context, id string, input MovementInputDTO) (*dto.MovementResponse, error) {
	mt, err := input.validate()
	if err != nil {
		return nil, err
	}
	current, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener movimiento: %w: %w", domain.ErrStoreFailure, err)
	}
	if current == nil {
		return nil, fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
	}

	unlock, err := uc.lockProducts(ctx, current.ProductID, input.ProductID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		mov       *entity.InventoryMovement
		alert     *entity.Alert
		prevAlert *entity.Alert
	)
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		alertRepo repository.AlertRepository,
		productRepo repository.ProductRepository,
	) error {
		existing, err := movRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("obtener movimiento: %w: %w", domain.ErrStoreFailure, err)
		}
		if existing == nil {
			return fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
		}
		product, err := uc.loadProduct(ctx, productRepo, input.ProductID)
		if err != nil {
			return err
		}

		previousProductID := existing.ProductID
		existing.ProductID = product.ID
		existing.ProductName = product.Name
		existing.Type = mt
		existing.Quantity = input.Quantity
		existing.Reason = strings.TrimSpace(input.Reason)
		existing.UpdatedAt = uc.now()
		existing.UpdatedBy = input.UserID
		if err := movRepo.Update(ctx, existing); err != nil {
			return fmt.Errorf("actualizar movimiento: %w: %w", domain.ErrStoreFailure, err)
		}
		mov = existing
		alert, err = uc.monitor.OnMovementWritten(ctx, movRepo, alertRepo, productRepo, existing, input.UserID)
		if err != nil || previousProductID == existing.ProductID {
			return err
		}
		prevAlert, err = uc.monitor.CheckProduct(ctx, movRepo, alertRepo, productRepo, previousProductID, existing.ID, input.UserID)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("movement_id", id).Msg("actualización de movimiento abortada")
		return nil, err
	}

	uc.afterCommit(ctx, mov, alert, prevAlert)
	out := toResponse(mov, alert)
	if prevAlert != nil {
		a := dto.AlertFromEntity(prevAlert)
		out.PreviousProductAlert = &a
	}
	return out, nil
}

// DeleteMovement desvincula las alertas que referencian el movimiento y lo elimina (hard delete).
// No ejecuta el monitor: las alertas históricas se conservan.
func (uc *MovementUseCase) DeleteMovement(ctx context.Context, id string) error {
	current, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("obtener movimiento: %w: %w", domain.ErrStoreFailure, err)
	}
	if current == nil {
		return fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
	}

	unlock, err := uc.lockProducts(ctx, current.ProductID)
	if err != nil {
		return err
	}
	defer unlock()

	return uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		alertRepo repository.AlertRepository,
		_ repository.ProductRepository,
	) error {
		existing, err := movRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("obtener movimiento: %w: %w", domain.ErrStoreFailure, err)
		}
		if existing == nil {
			return fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
		}
		if err := alertRepo.DetachMovement(ctx, id); err != nil {
			return fmt.Errorf("desvincular alertas: %w: %w", domain.ErrStoreFailure, err)
		}
		if err := movRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("eliminar movimiento: %w: %w", domain.ErrStoreFailure, err)
		}
		return nil
	})
}

// loadProduct lee el producto dentro de la tx; con rowLock bloquea la fila hasta el Commit.
func (uc *MovementUseCase) loadProduct(ctx context.Context, productRepo repository.ProductRepository, productID string) (*entity.Product, error) {
	var (
		product *entity.Product
		err     error
	)
	if uc.rowLock {
		product, err = productRepo.GetForUpdate(ctx, productID)
	} else {
		product, err = productRepo.GetByID(ctx, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w: %w", domain.ErrStoreFailure, err)
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return product, nil
}

// lockProducts toma los candados en orden de ID para evitar interbloqueos entre escrituras.
func (uc *MovementUseCase) lockProducts(ctx context.Context, productIDs ...string) (func(), error) {
	ids := make([]string, 0, len(productIDs))
	seen := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	unlocks := make([]func(), 0, len(ids))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, id := range ids {
		unlock, err := uc.locker.Lock(ctx, id)
		if err != nil {
			release()
			uc.log.Error().Err(err).Str("product_id", id).Msg("no se pudo bloquear el producto")
			return nil, fmt.Errorf("bloquear producto %s: %w: %w", id, domain.ErrConflict, err)
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

// afterCommit registra métricas y notifica las alertas fuera de la transacción (best-effort).
func (uc *MovementUseCase) afterCommit(ctx context.Context, mov *entity.InventoryMovement, alerts ...*entity.Alert) {
	uc.metrics.MovementWritten(mov.Type)
	for _, alert := range alerts {
		if alert != nil {
			uc.emit(ctx, alert)
		}
	}
}

func (uc *MovementUseCase) emit(ctx context.Context, alert *entity.Alert) {
	uc.metrics.AlertEmitted(alert.Type)
	uc.log.Info().
		Str("alert_id", alert.ID).
		Str("product_id", alert.ProductID).
		Str("type", string(alert.Type)).
		Str("balance", alert.Balance.String()).
		Msg("alerta de umbral registrada")

	if uc.notifier == nil {
		return
	}
	notifyCtx := context.WithoutCancel(ctx)
	go func() {
		if err := uc.notifier.NotifyAlert(notifyCtx, alert); err != nil {
			uc.log.Warn().Err(err).Str("alert_id", alert.ID).Msg("notificación de alerta fallida")
		}
	}()
}

func toResponse(mov *entity.InventoryMovement, alert *entity.Alert) *dto.MovementResponse {
	out := dto.MovementFromEntity(mov)
	if alert != nil {
		a := dto.AlertFromEntity(alert)
		out.Alert = &a
	}
	return &out
}
