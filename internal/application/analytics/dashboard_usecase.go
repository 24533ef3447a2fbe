package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const dashboardRecentDays = 7 // ventana del KPI "movimientos últimos 7 días"

// DashboardUseCase KPIs del dashboard principal.
type DashboardUseCase struct {
	aggregator *AggregatorUseCase
	alertRepo  repository.AlertRepository
	movRepo    repository.InventoryMovementRepository
}

// NewDashboardUseCase construye el caso de uso sobre el agregador.
func NewDashboardUseCase(
	aggregator *AggregatorUseCase,
	alertRepo repository.AlertRepository,
	movRepo repository.InventoryMovementRepository,
) *DashboardUseCase {
	return &DashboardUseCase{aggregator: aggregator, alertRepo: alertRepo, movRepo: movRepo}
}

// GetMetrics construye el DashboardMetricsDTO.
//
// Tres consultas en paralelo:
//  1. saldo actual por producto  → TotalProducts + TotalInventoryValue
//  2. CountUnread                → TotalOpenAlerts
//  3. CountSince(hoy - 7 días)   → MovementsLast7Days
func (uc *DashboardUseCase) GetMetrics(ctx context.Context) (*dto.DashboardMetricsDTO, error) {
	ctx, cancel := withBudget(ctx, uc.aggregator.cfg.Timeout)
	defer cancel()
	since := uc.aggregator.now().Add(-dashboardRecentDays * 24 * time.Hour)

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type stockResult struct {
		products int
		value    decimal.Decimal
		err      error
	}
	type countResult struct {
		n   int
		err error
	}

	stockCh := make(chan stockResult, 1)
	alertsCh := make(chan countResult, 1)
	movsCh := make(chan countResult, 1)

	go func() {
		stock, err := uc.aggregator.currentStock(ctx)
		if err != nil {
			stockCh <- stockResult{err: err}
			return
		}
		value := decimal.Zero
		for _, ps := range stock {
			value = value.Add(ps.product.Price.Mul(ps.balance))
		}
		stockCh <- stockResult{products: len(stock), value: value}
	}()
	go func() {
		n, err := uc.alertRepo.CountUnread(ctx)
		alertsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.movRepo.CountSince(ctx, since)
		movsCh <- countResult{n, err}
	}()

	stock := <-stockCh
	openAlerts := <-alertsCh
	recent := <-movsCh

	if stock.err != nil {
		return nil, fmt.Errorf("dashboard: valor de inventario: %w", stock.err)
	}
	if openAlerts.err != nil {
		return nil, unavailable("dashboard: alertas abiertas", openAlerts.err)
	}
	if recent.err != nil {
		return nil, unavailable("dashboard: movimientos recientes", recent.err)
	}

	return &dto.DashboardMetricsDTO{
		TotalProducts:       stock.products,
		TotalInventoryValue: stock.value.Round(2),
		TotalOpenAlerts:     openAlerts.n,
		MovementsLast7Days:  recent.n,
	}, nil
}
