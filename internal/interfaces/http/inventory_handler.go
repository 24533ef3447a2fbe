package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	uc            *inventory.MovementUseCase
	query         *inventory.MovementQueryUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	uc *inventory.MovementUseCase,
	query *inventory.MovementQueryUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{uc: uc, query: query, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Persiste el movimiento y, en la misma transacción, evalúa los umbrales del
//
//	producto. Si el saldo cruza un umbral la respuesta incluye la alerta emitida.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, movement_type (ENTRY|EXIT|ADJUSTMENT), quantity > 0, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterMovementFromRequest(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	out, err := h.query.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateMovement godoc
// @Summary      Reemplazar un movimiento
// @Description  Conserva la fecha del movimiento y vuelve a evaluar los umbrales.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del movimiento"
// @Param        body  body  dto.RegisterMovementRequest  true  "nuevos datos"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [put]
func (h *InventoryHandler) UpdateMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateMovementFromRequest(c.Context(), c.Params("id"), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteMovement godoc
// @Summary      Eliminar movimiento (solo admin)
// @Tags         inventory
// @Security     Bearer
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [delete]
func (h *InventoryHandler) DeleteMovement(c *fiber.Ctx) error {
	if err := h.uc.DeleteMovement(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMovements godoc
// @Summary      Listar movimientos (filtrado y paginado)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  false  "UUID del producto"
// @Param        date_from      query  string  false  "YYYY-MM-DD"
// @Param        date_to        query  string  false  "YYYY-MM-DD"
// @Param        movement_type  query  string  false  "ENTRY | EXIT | ADJUSTMENT"
// @Param        search         query  string  false  "Texto en motivo o nombre de producto"
// @Param        sort           query  string  false  "campo,dir (ej: quantity,asc)"
// @Param        page           query  int     false  "Página 0-based"
// @Param        size           query  int     false  "Tamaño de página (default 20, max 100)"
// @Success      200  {object}  dto.MovementPageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var req dto.MovementListRequest
	if err := c.QueryParser(&req); err != nil {
		return badParams(c)
	}
	out, err := h.query.ListMovements(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListRecentMovements godoc
// @Summary      Últimos movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad (default 10)"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements/recent [get]
func (h *InventoryHandler) ListRecentMovements(c *fiber.Ctx) error {
	out, err := h.query.ListRecentMovements(c.Context(), c.QueryInt("limit", inventory.DefaultRecentLimit))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Devuelve los productos por debajo de su umbral mínimo con la cantidad sugerida
//
//	de pedido, ordenados por déficit relativo y consumo reciente.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return writeReadError(c, err)
	}

	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
