// Package spreadsheet exporta el reporte de inventario a XLSX con excelize.
package spreadsheet

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

var _ analytics.ReportRenderer = (*InventoryReportGenerator)(nil)

const sheetName = "Inventario"

var headers = []string{
	"Producto", "Categoría", "Unidad", "Stock", "Precio unitario", "Valor total", "Último movimiento",
}

// InventoryReportGenerator implementa analytics.ReportRenderer.
type InventoryReportGenerator struct{}

func NewInventoryReportGenerator() *InventoryReportGenerator { return &InventoryReportGenerator{} }

func (g *InventoryReportGenerator) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (g *InventoryReportGenerator) Extension() string { return "xlsx" }

// RenderInventoryReport escribe título, rango, encabezados y una fila por producto.
func (g *InventoryReportGenerator) RenderInventoryReport(
	_ context.Context,
	meta analytics.ReportMeta,
	rows []dto.InventoryReportRowDTO,
) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	rango := "Hasta " + meta.DateTo
	if meta.DateFrom != "" {
		rango = fmt.Sprintf("Del %s al %s", meta.DateFrom, meta.DateTo)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "00467F"}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	set := func(cell string, v interface{}) {
		if err == nil {
			err = f.SetCellValue(sheetName, cell, v)
		}
	}
	set("A1", meta.Title)
	set("A2", rango)
	set("A3", "Generado: "+meta.GeneratedAt.Format("2006-01-02 15:04"))
	if err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	const headerRow = 5
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, h)
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(headers), headerRow)
	_ = f.SetCellStyle(sheetName, first, last, headerStyle)

	for i, r := range rows {
		n := headerRow + 1 + i
		lastMov := ""
		if r.LastMovementDate != nil {
			lastMov = r.LastMovementDate.Format("2006-01-02")
		}
		stock, _ := r.Stock.Float64()
		price, _ := r.UnitPrice.Float64()
		value, _ := r.TotalValue.Float64()
		values := []interface{}{r.ProductName, r.CategoryName, r.UnitName, stock, price, value, lastMov}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, n)
			set(cell, v)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("xlsx: filas: %w", err)
	}
	_ = f.SetColWidth(sheetName, "A", "A", 32)
	_ = f.SetColWidth(sheetName, "B", "G", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
