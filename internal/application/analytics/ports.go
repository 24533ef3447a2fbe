package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// Formatos de exportación soportados.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// ReportMeta encabezado común de los reportes exportados.
type ReportMeta struct {
	Title       string
	GeneratedAt time.Time
	DateFrom    string // vacío = sin límite inferior
	DateTo      string
}

// ReportRenderer genera el archivo de un reporte de inventario a partir de sus filas.
type ReportRenderer interface {
	RenderInventoryReport(ctx context.Context, meta ReportMeta, rows []dto.InventoryReportRowDTO) ([]byte, error)
	ContentType() string
	Extension() string
}
