package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// DefaultRecentLimit movimientos por defecto en el widget de recientes.
const DefaultRecentLimit = 10

// MovementQueryUseCase lecturas de movimientos: detalle, recientes y listado paginado.
type MovementQueryUseCase struct {
	movRepo repository.InventoryMovementRepository
	loc     *time.Location
}

// NewMovementQueryUseCase construye el caso de uso. loc define el calendario de los filtros de fecha.
func NewMovementQueryUseCase(movRepo repository.InventoryMovementRepository, loc *time.Location) *MovementQueryUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &MovementQueryUseCase{movRepo: movRepo, loc: loc}
}

// GetMovement detalle de un movimiento.
func (uc *MovementQueryUseCase) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener movimiento: %w: %w", domain.ErrStoreFailure, err)
	}
	if m == nil {
		return nil, fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
	}
	out := dto.MovementFromEntity(m)
	return &out, nil
}

// ListRecentMovements últimos limit movimientos (por defecto 10), más recientes primero.
func (uc *MovementQueryUseCase) ListRecentMovements(ctx context.Context, limit int) ([]dto.MovementResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	list, err := uc.movRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listar recientes: %w: %w", domain.ErrStoreFailure, err)
	}
	return dto.MovementsFromEntities(list), nil
}

// ListMovements recupera del store el conjunto filtrado por producto y fechas y
// aplica en memoria tipo, búsqueda, orden y paginación.
func (uc *MovementQueryUseCase) ListMovements(ctx context.Context, req dto.MovementListRequest) (*dto.MovementPageResponse, error) {
	filter, query, err := uc.parseListRequest(req)
	if err != nil {
		return nil, err
	}
	candidates, err := uc.movRepo.ListByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w: %w", domain.ErrStoreFailure, err)
	}
	page, total, totalPages := ApplyMovementQuery(candidates, query)
	return &dto.MovementPageResponse{
		Items: dto.MovementsFromEntities(page),
		PageResponse: dto.PageResponse{
			Page:       query.Page,
			Size:       query.Size,
			TotalCount: total,
			TotalPages: totalPages,
		},
	}, nil
}

func (uc *MovementQueryUseCase) parseListRequest(req dto.MovementListRequest) (repository.MovementFilter, MovementQuery, error) {
	var (
		filter repository.MovementFilter
		query  MovementQuery
	)
	filter.ProductID = req.ProductID

	from, err := inventory.ParseDay(req.DateFrom, uc.loc)
	if err != nil {
		return filter, query, err
	}
	to, err := inventory.ParseDay(req.DateTo, uc.loc)
	if err != nil {
		return filter, query, err
	}
	if from != nil {
		start := inventory.StartOfDay(*from, uc.loc)
		filter.From = &start
	}
	if to != nil {
		end := inventory.EndOfDay(*to, uc.loc)
		filter.To = &end
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, query, fmt.Errorf("%w: date_from posterior a date_to", domain.ErrInvalidInput)
	}

	if req.MovementType != "" {
		mt, ok := entity.ParseMovementType(req.MovementType)
		if !ok {
			return filter, query, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, req.MovementType)
		}
		query.Type = mt
	}
	query.Search = req.Search
	query.SortField, query.SortDesc, err = ParseSort(req.Sort)
	if err != nil {
		return filter, query, err
	}

	if req.Page < 0 {
		return filter, query, fmt.Errorf("%w: page debe ser >= 0", domain.ErrInvalidInput)
	}
	query.Page = req.Page
	switch {
	case req.Size <= 0:
		query.Size = DefaultPageSize
	case req.Size > MaxPageSize:
		query.Size = MaxPageSize
	default:
		query.Size = req.Size
	}
	return filter, query, nil
}
