// Package analytics contiene las agregaciones de solo lectura que alimentan el
// dashboard y los reportes de inventario. Todas se recalculan desde los movimientos.
package analytics

import (
	"context"
	"errors"
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

// Valores por defecto de las ventanas.
const (
	DefaultWindowDays      = 7
	DefaultConsumptionDays = 30
	DefaultTopProducts     = 5
	DefaultMaxWindowDays   = 366
)

// Config parámetros comunes de las agregaciones.
type Config struct {
	Location        *time.Location // calendario de los buckets diarios
	WindowDays      int            // ventana por defecto de series diarias
	ConsumptionDays int            // ventana de consumo (top productos, días de stock)
	MaxWindowDays   int            // tope de días de cualquier ventana pedida
	Timeout         time.Duration  // 0 = sin límite propio
}

func (c Config) withDefaults() Config {
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.WindowDays <= 0 {
		c.WindowDays = DefaultWindowDays
	}
	if c.ConsumptionDays <= 0 {
		c.ConsumptionDays = DefaultConsumptionDays
	}
	if c.MaxWindowDays <= 0 {
		c.MaxWindowDays = DefaultMaxWindowDays
	}
	return c
}

// AggregatorUseCase series y resúmenes derivados del historial de movimientos.
type AggregatorUseCase struct {
	movRepo      repository.InventoryMovementRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cfg          Config
	now          func() time.Time
}

// NewAggregatorUseCase construye el agregador.
func NewAggregatorUseCase(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	cfg Config,
) *AggregatorUseCase {
	return &AggregatorUseCase{
		movRepo:      movRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cfg:          cfg.withDefaults(),
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *AggregatorUseCase) WithClock(now func() time.Time) *AggregatorUseCase {
	uc.now = now
	return uc
}

// DailyMovementCounts un conteo por día calendario de la ventana, con ceros en días sin actividad.
func (uc *AggregatorUseCase) DailyMovementCounts(ctx context.Context, req dto.WindowRequest) ([]dto.DailyCountDTO, error) {
	w, err := resolveWindow(req, uc.cfg, uc.now())
	if err != nil {
		return nil, err
	}
	ctx, cancel := withBudget(ctx, uc.cfg.Timeout)
	defer cancel()

	movs, err := uc.movRepo.ListByFilter(ctx, repository.MovementFilter{From: &w.From, To: &w.To})
	if err != nil {
		return nil, unavailable("movimientos por día", err)
	}
	counts := make(map[string]int)
	for _, m := range movs {
		counts[w.DayKey(m.MovementDate)]++
	}
	days := w.Days()
	out := make([]dto.DailyCountDTO, 0, len(days))
	for _, d := range days {
		key := w.DayKey(d)
		out = append(out, dto.DailyCountDTO{Date: key, Count: counts[key]})
	}
	return out, nil
}

// MovementTypeCounts conteo por tipo (ENTRY, EXIT, ADJUSTMENT) en la ventana; siempre los tres.
func (uc *AggregatorUseCase) MovementTypeCounts(ctx context.Context, req dto.WindowRequest) ([]dto.TypeCountDTO, error) {
	w, err := resolveWindow(req, uc.cfg, uc.now())
	if err != nil {
		return nil, err
	}
	ctx, cancel := withBudget(ctx, uc.cfg.Timeout)
	defer cancel()

	movs, err := uc.movRepo.ListByFilter(ctx, repository.MovementFilter{From: &w.From, To: &w.To})
	if err != nil {
		return nil, unavailable("movimientos por tipo", err)
	}
	counts := make(map[entity.MovementType]int, len(entity.MovementTypes))
	for _, m := range movs {
		counts[m.Type]++
	}
	out := make([]dto.TypeCountDTO, 0, len(entity.MovementTypes))
	for _, t := range entity.MovementTypes {
		out = append(out, dto.TypeCountDTO{MovementType: string(t), Count: counts[t]})
	}
	return out, nil
}

// StockEvolution saldo al cierre de cada día de la ventana. Con productID vacío se suman
// los saldos de todos los productos; cada saldo se calcula con el historial completo.
func (uc *AggregatorUseCase) StockEvolution(ctx context.Context, req dto.WindowRequest, productID string) ([]dto.StockPointDTO, error) {
	w, err := resolveWindow(req, uc.cfg, uc.now())
	if err != nil {
		return nil, err
	}
	ctx, cancel := withBudget(ctx, uc.cfg.Timeout)
	defer cancel()

	movs, err := uc.movRepo.ListByFilter(ctx, repository.MovementFilter{ProductID: productID, To: &w.To})
	if err != nil {
		return nil, unavailable("evolución de stock", err)
	}

	days := w.Days()
	cutoffs := make([]time.Time, len(days))
	for i, d := range days {
		cutoffs[i] = inventory.EndOfDay(d, uc.cfg.Location)
	}
	totals := make([]decimal.Decimal, len(days))
	for i := range totals {
		totals[i] = decimal.Zero
	}
	for _, history := range groupByProduct(movs) {
		for i, b := range inventory.BalanceSeries(history, cutoffs) {
			totals[i] = totals[i].Add(b)
		}
	}

	out := make([]dto.StockPointDTO, 0, len(days))
	for i, d := range days {
		out = append(out, dto.StockPointDTO{Date: w.DayKey(d), ProductID: productID, Stock: totals[i]})
	}
	return out, nil
}

// CategorySummary por categoría: productos con saldo positivo y Σ(precio × saldo) de esos productos.
func (uc *AggregatorUseCase) CategorySummary(ctx context.Context) ([]dto.CategorySummaryDTO, error) {
	ctx, cancel := withBudget(ctx, uc.cfg.Timeout)
	defer cancel()

	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, unavailable("categorías", err)
	}
	stock, err := uc.currentStock(ctx)
	if err != nil {
		return nil, err
	}

	type acc struct {
		skus  int
		value decimal.Decimal
	}
	byCategory := make(map[string]*acc, len(categories))
	for _, c := range categories {
		byCategory[c.ID] = &acc{value: decimal.Zero}
	}
	for _, ps := range stock {
		a, ok := byCategory[ps.product.CategoryID]
		if !ok || !ps.balance.IsPositive() {
			continue
		}
		a.skus++
		a.value = a.value.Add(ps.product.Price.Mul(ps.balance))
	}

	out := make([]dto.CategorySummaryDTO, 0, len(categories))
	for _, c := range categories {
		a := byCategory[c.ID]
		out = append(out, dto.CategorySummaryDTO{
			CategoryID:   c.ID,
			CategoryName: c.Name,
			TotalSKUs:    a.skus,
			TotalValue:   a.value,
		})
	}
	return out, nil
}

// TopProducts productos con mayor volumen de salidas (EXIT) en los últimos windowDays días.
// Empates por nombre y luego ID.
func (uc *AggregatorUseCase) TopProducts(ctx context.Context, limit, windowDays int) ([]dto.TopProductDTO, error) {
	if limit <= 0 {
		limit = DefaultTopProducts
	}
	if windowDays <= 0 {
		windowDays = uc.cfg.ConsumptionDays
	}
	if windowDays > uc.cfg.MaxWindowDays {
		return nil, windowTooLarge(uc.cfg.MaxWindowDays)
	}
	w := inventory.LastDays(windowDays, uc.now(), uc.cfg.Location)
	ctx, cancel := withBudget(ctx, uc.cfg.Timeout)
	defer cancel()

	exits, err := uc.movRepo.ListByFilter(ctx, repository.MovementFilter{
		Type: entity.MovementTypeExit, From: &w.From, To: &w.To,
	})
	if err != nil {
		return nil, unavailable("top productos", err)
	}
	totals := make(map[string]*dto.TopProductDTO)
	for _, m := range exits {
		t, ok := totals[m.ProductID]
		if !ok {
			t = &dto.TopProductDTO{ProductID: m.ProductID, ProductName: m.ProductName, TotalExit: decimal.Zero}
			totals[m.ProductID] = t
		}
		t.TotalExit = t.TotalExit.Add(m.Quantity)
	}
	out := make([]dto.TopProductDTO, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalExit.Equal(out[j].TotalExit) {
			return out[i].TotalExit.GreaterThan(out[j].TotalExit)
		}
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MovementsLast24h movimientos con MovementDate en las últimas 24 horas.
func (uc *AggregatorUseCase) MovementsLast24h(ctx context.Context) (int, error) {
	ctx, cancel := withBudget(ctx, uc.cfg.Timeout)
	defer cancel()
	n, err := uc.movRepo.CountSince(ctx, uc.now().Add(-24*time.Hour))
	if err != nil {
		return 0, unavailable("movimientos 24h", err)
	}
	return n, nil
}

type productStock struct {
	product *entity.Product
	balance decimal.Decimal
}

// currentStock saldo actual de cada producto del catálogo (productos sin historial = 0).
func (uc *AggregatorUseCase) currentStock(ctx context.Context) ([]productStock, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, unavailable("productos", err)
	}
	movs, err := uc.movRepo.ListByFilter(ctx, repository.MovementFilter{})
	if err != nil {
		return nil, unavailable("movimientos", err)
	}
	history := groupByProduct(movs)
	out := make([]productStock, 0, len(products))
	for _, p := range products {
		out = append(out, productStock{product: p, balance: inventory.Replay(history[p.ID])})
	}
	return out, nil
}

func groupByProduct(movs []*entity.InventoryMovement) map[string][]*entity.InventoryMovement {
	out := make(map[string][]*entity.InventoryMovement)
	for _, m := range movs {
		out[m.ProductID] = append(out[m.ProductID], m)
	}
	return out
}

// resolveWindow From/To explícitos (YYYY-MM-DD) o los últimos days días hasta hoy.
// Con solo uno de los extremos, el otro se completa con days. Ninguna ventana supera
// cfg.MaxWindowDays.
func resolveWindow(req dto.WindowRequest, cfg Config, now time.Time) (inventory.Window, error) {
	loc := cfg.Location
	days := req.Days
	if days < 0 {
		return inventory.Window{}, fmt.Errorf("%w: days debe ser positivo", domain.ErrInvalidInput)
	}
	if days == 0 {
		days = cfg.WindowDays
	}
	if days > cfg.MaxWindowDays {
		return inventory.Window{}, windowTooLarge(cfg.MaxWindowDays)
	}
	from, err := inventory.ParseDay(req.From, loc)
	if err != nil {
		return inventory.Window{}, err
	}
	to, err := inventory.ParseDay(req.To, loc)
	if err != nil {
		return inventory.Window{}, err
	}
	switch {
	case from == nil && to == nil:
		return inventory.LastDays(days, now, loc), nil
	case from == nil:
		return inventory.NewWindow(to.AddDate(0, 0, -(days-1)), *to, loc)
	case to == nil:
		return inventory.NewWindow(*from, from.AddDate(0, 0, days-1), loc)
	}
	w, err := inventory.NewWindow(*from, *to, loc)
	if err != nil {
		return inventory.Window{}, err
	}
	return w, checkSpan(w, cfg.MaxWindowDays)
}

func checkSpan(w inventory.Window, limit int) error {
	if w.DayCount() > limit {
		return windowTooLarge(limit)
	}
	return nil
}

func windowTooLarge(limit int) error {
	return fmt.Errorf("%w: la ventana no puede superar %d días", domain.ErrInvalidInput, limit)
}

func withBudget(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// unavailable traduce fallos del store (o timeouts) a ErrServiceUnavailable.
func unavailable(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: tiempo de agregación agotado: %w: %w", op, domain.ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrServiceUnavailable, err)
}
