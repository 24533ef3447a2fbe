package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc         *appanalytics.DashboardUseCase
	aggregator *appanalytics.AggregatorUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, aggregator *appanalytics.AggregatorUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, aggregator: aggregator}
}

// GetMetrics devuelve los indicadores principales.
// GET /api/dashboard/metrics
//
// Respuesta: DashboardMetricsDTO (total_products, total_inventory_value,
// total_open_alerts, movements_last_7_days).
func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	out, err := h.uc.GetMetrics(c.Context())
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(out)
}

// DailyMovements GET /api/dashboard/movements/daily?days=7 | from=&to=
func (h *DashboardHandler) DailyMovements(c *fiber.Ctx) error {
	var req dto.WindowRequest
	if err := c.QueryParser(&req); err != nil {
		return badParams(c)
	}
	out, err := h.aggregator.DailyMovementCounts(c.Context(), req)
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(out)
}

// MovementTypes GET /api/dashboard/movements/types
func (h *DashboardHandler) MovementTypes(c *fiber.Ctx) error {
	var req dto.WindowRequest
	if err := c.QueryParser(&req); err != nil {
		return badParams(c)
	}
	out, err := h.aggregator.MovementTypeCounts(c.Context(), req)
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(out)
}

// StockEvolution GET /api/dashboard/stock-evolution?product_id=
// Sin product_id suma el saldo de todos los productos.
func (h *DashboardHandler) StockEvolution(c *fiber.Ctx) error {
	var req dto.WindowRequest
	if err := c.QueryParser(&req); err != nil {
		return badParams(c)
	}
	out, err := h.aggregator.StockEvolution(c.Context(), req, c.Query("product_id"))
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(out)
}

// CategorySummary GET /api/dashboard/categories
func (h *DashboardHandler) CategorySummary(c *fiber.Ctx) error {
	out, err := h.aggregator.CategorySummary(c.Context())
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(out)
}

// TopProducts GET /api/dashboard/top-products?limit=5&days=30
func (h *DashboardHandler) TopProducts(c *fiber.Ctx) error {
	out, err := h.aggregator.TopProducts(c.Context(), c.QueryInt("limit", appanalytics.DefaultTopProducts), c.QueryInt("days", 0))
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(out)
}

// MovementsLast24h GET /api/dashboard/movements/last-24h
func (h *DashboardHandler) MovementsLast24h(c *fiber.Ctx) error {
	n, err := h.aggregator.MovementsLast24h(c.Context())
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}
