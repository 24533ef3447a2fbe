package alerts

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// AlertUseCase ledger de alertas: lectura (drenar/consultar), vista crítica, marcado y borrado.
type AlertUseCase struct {
	alertRepo   repository.AlertRepository
	movRepo     repository.InventoryMovementRepository
	productRepo repository.ProductRepository
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(
	alertRepo repository.AlertRepository,
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
) *AlertUseCase {
	return &AlertUseCase{alertRepo: alertRepo, movRepo: movRepo, productRepo: productRepo}
}

// DrainUnread devuelve las alertas no leídas (más recientes primero) y marca como leídas
// exactamente las devueltas. Alertas creadas entre la lectura y el marcado siguen sin leer.
func (uc *AlertUseCase) DrainUnread(ctx context.Context) ([]dto.AlertResponse, error) {
	list, err := uc.alertRepo.ListUnread(ctx)
	if err != nil {
		return nil, storeErr("listar alertas no leídas", err)
	}
	if len(list) == 0 {
		return []dto.AlertResponse{}, nil
	}
	ids := make([]string, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	if _, err := uc.alertRepo.MarkRead(ctx, ids...); err != nil {
		return nil, storeErr("marcar alertas", err)
	}
	return dto.AlertsFromEntities(list), nil
}

// PeekUnread igual que DrainUnread pero sin modificar el estado.
func (uc *AlertUseCase) PeekUnread(ctx context.Context) ([]dto.AlertResponse, error) {
	list, err := uc.alertRepo.ListUnread(ctx)
	if err != nil {
		return nil, storeErr("listar alertas no leídas", err)
	}
	return dto.AlertsFromEntities(list), nil
}

// ListAll historial completo, más recientes primero.
func (uc *AlertUseCase) ListAll(ctx context.Context) ([]dto.AlertResponse, error) {
	list, err := uc.alertRepo.ListAll(ctx)
	if err != nil {
		return nil, storeErr("listar alertas", err)
	}
	return dto.AlertsFromEntities(list), nil
}

// ListCritical alertas no leídas cuyo producto sigue violando, con su saldo actual y
// umbrales vigentes, el tipo de umbral que la alerta marcó. Las que ya se resolvieron
// se omiten sin marcarlas ni borrarlas.
func (uc *AlertUseCase) ListCritical(ctx context.Context) ([]dto.AlertResponse, error) {
	unread, err := uc.alertRepo.ListUnread(ctx)
	if err != nil {
		return nil, storeErr("listar alertas no leídas", err)
	}

	type productState struct {
		product *entity.Product
		balance decimal.Decimal
	}
	states := make(map[string]*productState)

	out := make([]dto.AlertResponse, 0, len(unread))
	for _, a := range unread {
		st, ok := states[a.ProductID]
		if !ok {
			product, err := uc.productRepo.GetByID(ctx, a.ProductID)
			if err != nil {
				return nil, storeErr("obtener producto", err)
			}
			st = &productState{product: product}
			if product != nil {
				movs, err := uc.movRepo.ListByProduct(ctx, a.ProductID, nil)
				if err != nil {
					return nil, storeErr("listar movimientos", err)
				}
				st.balance = inventory.Replay(movs)
			}
			states[a.ProductID] = st
		}
		// producto eliminado: la alerta ya no es accionable
		if st.product == nil {
			continue
		}
		if !inventory.Violates(st.balance, a.Type, st.product.ThresholdMin, st.product.ThresholdMax) {
			continue
		}
		resp := dto.AlertFromEntity(a)
		resp.Balance = st.balance
		resp.ThresholdMin = st.product.ThresholdMin
		resp.ThresholdMax = st.product.ThresholdMax
		out = append(out, resp)
	}
	return out, nil
}

// MarkRead marca una alerta como leída (idempotente). NotFound si no existe.
func (uc *AlertUseCase) MarkRead(ctx context.Context, id string) (*dto.AlertResponse, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsRead {
		if _, err := uc.alertRepo.MarkRead(ctx, id); err != nil {
			return nil, storeErr("marcar alerta", err)
		}
		a.IsRead = true
	}
	out := dto.AlertFromEntity(a)
	return &out, nil
}

// MarkAllRead marca todas las alertas pendientes y devuelve cuántas cambiaron de estado.
func (uc *AlertUseCase) MarkAllRead(ctx context.Context) (int, error) {
	n, err := uc.alertRepo.MarkAllRead(ctx)
	if err != nil {
		return 0, storeErr("marcar alertas", err)
	}
	return n, nil
}

// Delete elimina definitivamente una alerta. NotFound si no existe.
func (uc *AlertUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.alertRepo.Delete(ctx, id); err != nil {
		return storeErr("eliminar alerta", err)
	}
	return nil
}

// UnreadCount cantidad de alertas sin leer (badge).
func (uc *AlertUseCase) UnreadCount(ctx context.Context) (int, error) {
	n, err := uc.alertRepo.CountUnread(ctx)
	if err != nil {
		return 0, storeErr("contar alertas", err)
	}
	return n, nil
}

// Incidents vista derivada de episodios (primera violación -> resolución) recalculada desde el
// historial bajo los umbrales actuales. productID vacío = todos los productos.
func (uc *AlertUseCase) Incidents(ctx context.Context, productID string) ([]dto.IncidentDTO, error) {
	var products []*entity.Product
	if productID != "" {
		p, err := uc.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, storeErr("obtener producto", err)
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}
		products = []*entity.Product{p}
	} else {
		list, err := uc.productRepo.List(ctx)
		if err != nil {
			return nil, storeErr("listar productos", err)
		}
		products = list
	}

	out := make([]dto.IncidentDTO, 0)
	for _, p := range products {
		movs, err := uc.movRepo.ListByProduct(ctx, p.ID, nil)
		if err != nil {
			return nil, storeErr("listar movimientos", err)
		}
		episodes := inventory.Incidents(p.ID, movs, p.ThresholdMin, p.ThresholdMax)
		if len(episodes) == 0 {
			continue
		}
		alerts, err := uc.alertRepo.ListByProduct(ctx, p.ID)
		if err != nil {
			return nil, storeErr("listar alertas del producto", err)
		}
		for _, ep := range episodes {
			out = append(out, dto.IncidentDTO{
				ProductID:         p.ID,
				ProductName:       p.Name,
				AlertType:         string(ep.Type),
				OpenedAt:          ep.OpenedAt,
				ResolvedAt:        ep.ResolvedAt,
				OpeningMovementID: ep.OpeningMovementID,
				AlertCount:        countAlerts(alerts, ep),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, nil
}

// countAlerts filas del ledger del mismo tipo emitidas por movimientos del episodio.
func countAlerts(alerts []*entity.Alert, ep inventory.Incident) int {
	inEpisode := make(map[string]bool, len(ep.MovementIDs))
	for _, id := range ep.MovementIDs {
		inEpisode[id] = true
	}
	n := 0
	for _, a := range alerts {
		if a.Type == ep.Type && a.MovementID != "" && inEpisode[a.MovementID] {
			n++
		}
	}
	return n
}

func (uc *AlertUseCase) get(ctx context.Context, id string) (*entity.Alert, error) {
	a, err := uc.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("obtener alerta", err)
	}
	if a == nil {
		return nil, fmt.Errorf("alerta %s: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreFailure, err)
}
