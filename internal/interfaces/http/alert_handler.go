package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/alerts"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// AlertHandler expone el ledger de alertas de umbral.
type AlertHandler struct {
	uc *alerts.AlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerts.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// ListUnread godoc
// @Summary      Alertas no leídas
// @Description  Por defecto drena: devuelve las no leídas y las marca como leídas.
//
//	Con peek=true solo consulta.
//
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        peek  query  bool  false  "Consultar sin marcar como leídas"
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts/unread [get]
func (h *AlertHandler) ListUnread(c *fiber.Ctx) error {
	var (
		out []dto.AlertResponse
		err error
	)
	if c.QueryBool("peek", false) {
		out, err = h.uc.PeekUnread(c.Context())
	} else {
		out, err = h.uc.DrainUnread(c.Context())
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UnreadCount godoc
// @Summary      Cantidad de alertas no leídas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UnreadCountResponse
// @Router       /api/alerts/unread/count [get]
func (h *AlertHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.uc.UnreadCount(c.Context())
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(dto.UnreadCountResponse{Unread: n})
}

// ListAll godoc
// @Summary      Historial completo de alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) ListAll(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListCritical godoc
// @Summary      Alertas críticas
// @Description  No leídas cuyo saldo sigue fuera de los umbrales actuales del producto.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts/critical [get]
func (h *AlertHandler) ListCritical(c *fiber.Ctx) error {
	out, err := h.uc.ListCritical(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/read [patch]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	out, err := h.uc.MarkRead(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkAllRead godoc
// @Summary      Marcar todas las alertas como leídas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MarkedReadResponse
// @Router       /api/alerts/read-all [patch]
func (h *AlertHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.uc.MarkAllRead(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MarkedReadResponse{Marked: n})
}

// Delete godoc
// @Summary      Eliminar alerta (solo admin)
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id} [delete]
func (h *AlertHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Incidents godoc
// @Summary      Episodios de stock fuera de umbral
// @Description  Vista derivada: reproduce el historial con los umbrales actuales.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "UUID del producto"
// @Success      200  {array}  dto.IncidentDTO
// @Router       /api/alerts/incidents [get]
func (h *AlertHandler) Incidents(c *fiber.Ctx) error {
	out, err := h.uc.Incidents(c.Context(), c.Query("product_id"))
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(out)
}
