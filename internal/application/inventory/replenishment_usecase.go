package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReplenishmentUseCase genera la lista de reposición: productos bajo su umbral mínimo,
// priorizados por déficit relativo y consumo reciente.
type ReplenishmentUseCase struct {
	productRepo     repository.ProductRepository
	movRepo         repository.InventoryMovementRepository
	consumptionDays int
	now             func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
// consumptionDays es la ventana usada para medir salidas (por defecto 30).
func NewReplenishmentUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.InventoryMovementRepository,
	consumptionDays int,
) *ReplenishmentUseCase {
	if consumptionDays <= 0 {
		consumptionDays = 30
	}
	return &ReplenishmentUseCase{
		productRepo:     productRepo,
		movRepo:         movRepo,
		consumptionDays: consumptionDays,
		now:             time.Now,
	}
}

// GenerateReplenishmentList devuelve los productos con saldo < ThresholdMin con la cantidad
// sugerida para volver al máximo y un ranking de prioridad (1 = más urgente).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Productos e historial completo (un solo viaje al store)
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w: %w", domain.ErrStoreFailure, err)
	}
	if len(products) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}
	movs, err := uc.movRepo.ListByFilter(ctx, repository.MovementFilter{})
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w: %w", domain.ErrStoreFailure, err)
	}
	byProduct := make(map[string][]*entity.InventoryMovement)
	for _, m := range movs {
		byProduct[m.ProductID] = append(byProduct[m.ProductID], m)
	}

	// 2. Consumo (EXIT) en la ventana
	since := uc.now().AddDate(0, 0, -uc.consumptionDays)
	hundred := decimal.NewFromInt(100)

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, p := range products {
		history := byProduct[p.ID]
		balance := inventory.Replay(history)
		min := decimal.NewFromInt(int64(p.ThresholdMin))
		if !balance.LessThan(min) {
			continue
		}

		consumed := decimal.Zero
		for _, m := range history {
			if m.Type == entity.MovementTypeExit && !m.MovementDate.Before(since) {
				consumed = consumed.Add(m.Quantity)
			}
		}

		suggested := decimal.NewFromInt(int64(p.ThresholdMax)).Sub(balance)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		deficitPct := hundred
		if min.IsPositive() {
			deficitPct = min.Sub(balance).Div(min).Mul(hundred).Round(2)
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:         p.ID,
			ProductName:       p.Name,
			CurrentStock:      balance,
			ThresholdMin:      p.ThresholdMin,
			ThresholdMax:      p.ThresholdMax,
			SuggestedOrderQty: suggested,
			UnitPrice:         p.Price,
			EstimatedCost:     suggested.Mul(p.Price),
			DeficitPct:        deficitPct,
			ConsumedInWindow:  consumed,
		})
	}

	// 3. Ordenar: mayor déficit relativo, luego mayor consumo; desempate por nombre.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.DeficitPct.Equal(b.DeficitPct) {
			return a.DeficitPct.GreaterThan(b.DeficitPct)
		}
		if !a.ConsumedInWindow.Equal(b.ConsumedInWindow) {
			return a.ConsumedInWindow.GreaterThan(b.ConsumedInWindow)
		}
		return a.ProductName < b.ProductName
	})

	// 4. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
