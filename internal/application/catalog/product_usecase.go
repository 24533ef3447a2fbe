// Package catalog casos de uso CRUD de productos, categorías y unidades.
// El stock no se edita aquí: se deriva siempre de los movimientos.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// StockReader calcula el saldo actual de un producto.
type StockReader interface {
	ComputeBalance(ctx context.Context, productID string, cutoff *time.Time) (decimal.Decimal, error)
}

// ProductUseCase casos de uso CRUD para productos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	unitRepo     repository.UnitRepository
	movRepo      repository.InventoryMovementRepository
	stock        StockReader
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	unitRepo repository.UnitRepository,
	movRepo repository.InventoryMovementRepository,
	stock StockReader,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, unitRepo: unitRepo, movRepo: movRepo, stock: stock}
}

// Create crea un producto. Umbrales y precio se validan; categoría y unidad deben existir.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		CategoryID:   in.CategoryID,
		UnitID:       in.UnitID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		ThresholdMin: in.ThresholdMin,
		ThresholdMax: in.ThresholdMax,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}
	return toProductResponse(product, decimal.Zero), nil
}

// GetByID obtiene un producto con su saldo actual.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	balance, err := uc.stock.ComputeBalance(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, balance), nil
}

// Update reemplaza los datos del producto. Los umbrales nuevos no reescriben alertas ya emitidas.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}
	product.CategoryID = in.CategoryID
	product.UnitID = in.UnitID
	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.Price = in.Price
	product.ThresholdMin = in.ThresholdMin
	product.ThresholdMax = in.ThresholdMax
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	balance, err := uc.stock.ComputeBalance(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, balance), nil
}

// List lista todos los productos con su saldo actual, por nombre.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		balance, err := uc.stock.ComputeBalance(ctx, p.ID, nil)
		if err != nil {
			return nil, err
		}
		items = append(items, *toProductResponse(p, balance))
	}
	return items, nil
}

// Delete elimina un producto sin movimientos. Con historial devuelve ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	movs, err := uc.movRepo.ListByProduct(ctx, id, nil)
	if err != nil {
		return err
	}
	if len(movs) > 0 {
		return fmt.Errorf("%w: el producto tiene %d movimientos", domain.ErrConflict, len(movs))
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return product, nil
}

func (uc *ProductUseCase) validate(ctx context.Context, in dto.CreateProductRequest) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.ThresholdMin < 0 || in.ThresholdMin > in.ThresholdMax {
		return fmt.Errorf("%w: se requiere 0 <= threshold_min <= threshold_max", domain.ErrInvalidInput)
	}
	category, err := uc.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("categoría %q: %w", in.CategoryID, domain.ErrNotFound)
	}
	unit, err := uc.unitRepo.GetByID(ctx, in.UnitID)
	if err != nil {
		return err
	}
	if unit == nil {
		return fmt.Errorf("unidad %q: %w", in.UnitID, domain.ErrNotFound)
	}
	return nil
}

func toProductResponse(p *entity.Product, balance decimal.Decimal) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		CategoryID:   p.CategoryID,
		UnitID:       p.UnitID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		ThresholdMin: p.ThresholdMin,
		ThresholdMax: p.ThresholdMax,
		CurrentStock: balance,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
