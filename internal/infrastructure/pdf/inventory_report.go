// Package pdf genera el reporte de inventario en PDF (A4).
//
// Layout:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: título + rango de fechas  │  fecha de generación        │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Categoría | Unidad | Stock | P.Unit | Valor   │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TOTALES: productos / unidades / valor del inventario            │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

var _ analytics.ReportRenderer = (*InventoryReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// InventoryReportGenerator implementa analytics.ReportRenderer con Maroto v2.
type InventoryReportGenerator struct{}

func NewInventoryReportGenerator() *InventoryReportGenerator { return &InventoryReportGenerator{} }

func (g *InventoryReportGenerator) ContentType() string { return "application/pdf" }
func (g *InventoryReportGenerator) Extension() string   { return "pdf" }

// RenderInventoryReport genera el PDF y devuelve sus bytes.
func (g *InventoryReportGenerator) RenderInventoryReport(
	_ context.Context,
	meta analytics.ReportMeta,
	rows []dto.InventoryReportRowDTO,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(meta.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(meta))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(meta analytics.ReportMeta) core.Row {
	rango := "Hasta " + meta.DateTo
	if meta.DateFrom != "" {
		rango = fmt.Sprintf("Del %s al %s", meta.DateFrom, meta.DateTo)
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New(strings.ToUpper(meta.Title), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(rango, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+meta.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Unidad", 1, align.Left),
		h("Stock", 1, align.Right),
		h("P. Unit.", 1, align.Right),
		h("Valor", 2, align.Right),
		h("Últ. movimiento", 2, align.Center),
	)
}

func tableRows(rows []dto.InventoryReportRowDTO) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	out := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		last := "-"
		if r.LastMovementDate != nil {
			last = r.LastMovementDate.Format("02/01/2006")
		}
		out = append(out, row.New(6).Add(
			cell(r.ProductName, 3, align.Left),
			cell(nonEmpty(r.CategoryName, "-"), 2, align.Left),
			cell(nonEmpty(r.UnitName, "-"), 1, align.Left),
			cell(r.Stock.String(), 1, align.Right),
			cell("$"+formatMoney(r.UnitPrice), 1, align.Right),
			cell("$"+formatMoney(r.TotalValue), 2, align.Right),
			cell(last, 2, align.Center),
		))
	}
	return out
}

func totalsRow(rows []dto.InventoryReportRowDTO) core.Row {
	units, value := decimal.Zero, decimal.Zero
	for _, r := range rows {
		units = units.Add(r.Stock)
		value = value.Add(r.TotalValue)
	}
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	return row.New(16).Add(
		col.New(6),
		col.New(3).Add(label("Productos:", 0), label("Unidades:", 5), label("VALOR TOTAL:", 10)),
		col.New(3).Add(
			text.New(fmt.Sprintf("%d", len(rows)), props.Text{Size: 9, Align: align.Right}),
			text.New(units.String(), props.Text{Size: 9, Align: align.Right, Top: 5}),
			text.New("$"+formatMoney(value), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 10,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney redondea a pesos e inserta puntos de miles. Ej: 1000000 → "1.000.000"
func formatMoney(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	n := len(s)
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
