package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// CategoryUseCase alta y consulta de categorías y unidades de medida.
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
	unitRepo     repository.UnitRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categoryRepo repository.CategoryRepository, unitRepo repository.UnitRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo, unitRepo: unitRepo}
}

func (uc *CategoryUseCase) CreateCategory(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	now := time.Now()
	c := &entity.Category{ID: uuid.New().String(), Name: name, Description: in.Description, CreatedAt: now, UpdatedAt: now}
	if err := uc.categoryRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("crear categoría: %w", err)
	}
	return toCategoryResponse(c), nil
}

func (uc *CategoryUseCase) GetCategory(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("categoría %s: %w", id, domain.ErrNotFound)
	}
	return toCategoryResponse(c), nil
}

func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

func (uc *CategoryUseCase) CreateUnit(ctx context.Context, in dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	now := time.Now()
	u := &entity.Unit{ID: uuid.New().String(), Name: name, Abbreviation: strings.TrimSpace(in.Abbreviation), CreatedAt: now, UpdatedAt: now}
	if err := uc.unitRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("crear unidad: %w", err)
	}
	return toUnitResponse(u), nil
}

func (uc *CategoryUseCase) GetUnit(ctx context.Context, id string) (*dto.UnitResponse, error) {
	u, err := uc.unitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("unidad %s: %w", id, domain.ErrNotFound)
	}
	return toUnitResponse(u), nil
}

func (uc *CategoryUseCase) ListUnits(ctx context.Context) ([]dto.UnitResponse, error) {
	list, err := uc.unitRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUnitResponse(u))
	}
	return out, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

func toUnitResponse(u *entity.Unit) *dto.UnitResponse {
	return &dto.UnitResponse{ID: u.ID, Name: u.Name, Abbreviation: u.Abbreviation, CreatedAt: u.CreatedAt}
}
