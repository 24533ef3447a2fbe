package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// CatalogHandler categorías y unidades de medida.
type CatalogHandler struct {
	uc *catalog.CategoryUseCase
}

func NewCatalogHandler(uc *catalog.CategoryUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateCategory POST /api/categories
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateCategory(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetCategory GET /api/categories/:id
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	out, err := h.uc.GetCategory(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListCategories GET /api/categories
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateUnit POST /api/units
func (h *CatalogHandler) CreateUnit(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateUnit(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetUnit GET /api/units/:id
func (h *CatalogHandler) GetUnit(c *fiber.Ctx) error {
	out, err := h.uc.GetUnit(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListUnits GET /api/units
func (h *CatalogHandler) ListUnits(c *fiber.Ctx) error {
	out, err := h.uc.ListUnits(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
