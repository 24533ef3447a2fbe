package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReportUseCase resumen de reportes, reporte de inventario y su exportación.
type ReportUseCase struct {
	movRepo      repository.InventoryMovementRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	unitRepo     repository.UnitRepository
	renderers    map[string]ReportRenderer
	cfg          Config
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso. renderers se indexa por formato (pdf, xlsx).
func NewReportUseCase(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	unitRepo repository.UnitRepository,
	renderers map[string]ReportRenderer,
	cfg Config,
) *ReportUseCase {
	if renderers == nil {
		renderers = map[string]ReportRenderer{}
	}
	return &ReportUseCase{
		movRepo:      movRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		unitRepo:     unitRepo,
		renderers:    renderers,
		cfg:          cfg.withDefaults(),
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// reportScope filtro ya interpretado.
type reportScope struct {
	filter   dto.ReportFilterRequest
	from     *time.Time // inicio del primer día, nil si no vino
	to       time.Time  // fin del día DateTo (hoy por defecto)
	toDay    time.Time
	products map[string]*entity.Product // productos que cumplen producto/categoría/unidad
}

func (uc *ReportUseCase) scope(ctx context.Context, f dto.ReportFilterRequest) (*reportScope, error) {
	loc := uc.cfg.Location
	from, err := inventory.ParseDay(f.DateFrom, loc)
	if err != nil {
		return nil, err
	}
	to, err := inventory.ParseDay(f.DateTo, loc)
	if err != nil {
		return nil, err
	}
	toDay := inventory.StartOfDay(uc.now(), loc)
	if to != nil {
		toDay = *to
	}
	s := &reportScope{filter: f, to: inventory.EndOfDay(toDay, loc), toDay: toDay}
	if from != nil {
		start := inventory.StartOfDay(*from, loc)
		if start.After(s.to) {
			return nil, fmt.Errorf("%w: date_from posterior a date_to", domain.ErrInvalidInput)
		}
		if inventory.DaysBetween(start, toDay)+1 > uc.cfg.MaxWindowDays {
			return nil, windowTooLarge(uc.cfg.MaxWindowDays)
		}
		s.from = &start
	}

	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, unavailable("productos", err)
	}
	s.products = make(map[string]*entity.Product)
	for _, p := range products {
		if f.ProductID != "" && p.ID != f.ProductID {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.UnitID != "" && p.UnitID != f.UnitID {
			continue
		}
		s.products[p.ID] = p
	}
	return s, nil
}

// history historial completo hasta s.to de los productos del alcance.
func (uc *ReportUseCase) history(ctx context.Context, s *reportScope) (map[string][]*entity.InventoryMovement, error) {
	movs, err := uc.movRepo.ListByFilter(ctx, repository.MovementFilter{
		ProductID:  s.filter.ProductID,
		CategoryID: s.filter.CategoryID,
		UnitID:     s.filter.UnitID,
		To:         &s.to,
	})
	if err != nil {
		return nil, unavailable("movimientos del reporte", err)
	}
	return groupByProduct(movs), nil
}

// Summary SKUs con saldo positivo a DateTo, valor total y días de stock restantes.
// La ventana de consumo va de DateFrom (por defecto DateTo - 30 días) a DateTo, ambos
// inclusive: 31 días por defecto. Sin salidas en la ventana DaysOfStock es 0.
func (uc *ReportUseCase) Summary(ctx context.Context, f dto.ReportFilterRequest) (*dto.ReportSummaryDTO, error) {
	ctx, cancel := withBudget(ctx, uc.cfg.Timeout)
	defer cancel()

	s, err := uc.scope(ctx, f)
	if err != nil {
		return nil, err
	}
	consumptionFrom := s.toDay.AddDate(0, 0, -uc.cfg.ConsumptionDays)
	if s.from != nil {
		consumptionFrom = *s.from
	}
	window, err := inventory.NewWindow(consumptionFrom, s.toDay, uc.cfg.Location)
	if err != nil {
		return nil, err
	}

	history, err := uc.history(ctx, s)
	if err != nil {
		return nil, err
	}

	out := &dto.ReportSummaryDTO{
		TotalInventoryValue: decimal.Zero,
		TotalUnits:          decimal.Zero,
		AvgDailyConsumption: decimal.Zero,
		DateFrom:            window.DayKey(window.From),
		DateTo:              window.DayKey(window.To),
	}
	consumed := decimal.Zero
	for id, p := range s.products {
		movs := history[id]
		for _, m := range movs {
			if m.Type == entity.MovementTypeExit && window.Contains(m.MovementDate) {
				consumed = consumed.Add(m.Quantity)
			}
		}
		balance := inventory.Replay(movs)
		if !balance.IsPositive() {
			continue
		}
		out.TotalSKUs++
		out.TotalUnits = out.TotalUnits.Add(balance)
		out.TotalInventoryValue = out.TotalInventoryValue.Add(balance.Mul(p.Price))
	}

	days := int64(window.DayCount())
	if days < 1 {
		days = 1
	}
	if consumed.IsPositive() {
		out.AvgDailyConsumption = consumed.Div(decimal.NewFromInt(days)).Round(8)
		out.DaysOfStock = out.TotalUnits.Div(out.AvgDailyConsumption).Floor().IntPart()
	}
	out.TotalInventoryValue = out.TotalInventoryValue.Round(2)
	return out, nil
}

// InventoryReport una fila por producto del alcance con movimientos en la ventana
// [DateFrom, DateTo]; saldo a DateTo con el historial completo. Filas por nombre de producto.
func (uc *ReportUseCase) InventoryReport(ctx context.Context, f dto.ReportFilterRequest) ([]dto.InventoryReportRowDTO, error) {
	ctx, cancel := withBudget(ctx, uc.cfg.Timeout)
	defer cancel()
	return uc.inventoryRows(ctx, f)
}

func (uc *ReportUseCase) inventoryRows(ctx context.Context, f dto.ReportFilterRequest) ([]dto.InventoryReportRowDTO, error) {
	s, err := uc.scope(ctx, f)
	if err != nil {
		return nil, err
	}
	history, err := uc.history(ctx, s)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, unavailable("categorías", err)
	}
	units, err := uc.unitRepo.List(ctx)
	if err != nil {
		return nil, unavailable("unidades", err)
	}
	categoryName := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryName[c.ID] = c.Name
	}
	unitName := make(map[string]string, len(units))
	for _, u := range units {
		unitName[u.ID] = u.Name
	}

	rows := make([]dto.InventoryReportRowDTO, 0)
	for id, p := range s.products {
		movs := history[id]
		var last *time.Time
		for _, m := range movs {
			if s.from != nil && m.MovementDate.Before(*s.from) {
				continue
			}
			if last == nil || m.MovementDate.After(*last) {
				d := m.MovementDate
				last = &d
			}
		}
		if last == nil {
			continue
		}
		stock := inventory.Replay(movs)
		rows = append(rows, dto.InventoryReportRowDTO{
			ProductID:        p.ID,
			ProductName:      p.Name,
			CategoryName:     categoryName[p.CategoryID],
			UnitName:         unitName[p.UnitID],
			Stock:            stock,
			UnitPrice:        p.Price,
			TotalValue:       stock.Mul(p.Price).Round(2),
			LastMovementDate: last,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductName != rows[j].ProductName {
			return rows[i].ProductName < rows[j].ProductName
		}
		return rows[i].ProductID < rows[j].ProductID
	})
	return rows, nil
}

// ExportedReport archivo generado.
type ExportedReport struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportInventoryReport genera el reporte de inventario en el formato pedido (pdf | xlsx).
func (uc *ReportUseCase) ExportInventoryReport(ctx context.Context, f dto.ReportFilterRequest, format string) (*ExportedReport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatXLSX
	}
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato de exportación %q", domain.ErrInvalidInput, format)
	}

	ctx, cancel := withBudget(ctx, uc.cfg.Timeout)
	defer cancel()
	rows, err := uc.inventoryRows(ctx, f)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	meta := ReportMeta{
		Title:       "Reporte de inventario",
		GeneratedAt: now,
		DateFrom:    f.DateFrom,
		DateTo:      f.DateTo,
	}
	if meta.DateTo == "" {
		meta.DateTo = now.In(uc.cfg.Location).Format(inventory.DayLayout)
	}
	content, err := renderer.RenderInventoryReport(ctx, meta, rows)
	if err != nil {
		return nil, unavailable("renderizar reporte", err)
	}
	return &ExportedReport{
		Filename:    fmt.Sprintf("inventario_%s.%s", now.In(uc.cfg.Location).Format("20060102_150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}
