package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// ReportHandler reportes de inventario (JSON y archivos).
type ReportHandler struct {
	uc *appanalytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "UUID del producto"
// @Param        category_id  query  string  false  "UUID de la categoría"
// @Param        unit_id      query  string  false  "UUID de la unidad"
// @Param        date_from    query  string  false  "YYYY-MM-DD"
// @Param        date_to      query  string  false  "YYYY-MM-DD (default hoy)"
// @Success      200  {object}  dto.ReportSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	var f dto.ReportFilterRequest
	if err := c.QueryParser(&f); err != nil {
		return badParams(c)
	}
	out, err := h.uc.Summary(c.Context(), f)
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Reporte de inventario
// @Description  Una fila por producto con movimientos en el rango, stock a date_to.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InventoryReportRowDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	var f dto.ReportFilterRequest
	if err := c.QueryParser(&f); err != nil {
		return badParams(c)
	}
	out, err := h.uc.InventoryReport(c.Context(), f)
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar reporte de inventario
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format  query  string  false  "pdf | xlsx (default xlsx)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	var f dto.ReportFilterRequest
	if err := c.QueryParser(&f); err != nil {
		return badParams(c)
	}
	file, err := h.uc.ExportInventoryReport(c.Context(), f, c.Query("format"))
	if err != nil {
		return writeReadError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Send(file.Content)
}
