package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.UnitRepository     = (*UnitRepo)(nil)
)

// CategoryRepo categorías sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

type categoryRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row categoryRow) toEntity() *entity.Category {
	return &entity.Category{ID: row.ID, Name: row.Name, Description: deref(row.Description), CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO categories (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, nullString(c.Description), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	if !validID(id) {
		return nil, nil
	}
	var row categoryRow
	err := pgxscan.Get(ctx, r.q, &row,
		`SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1`, id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return row.toEntity(), nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	var rows []categoryRow
	if err := pgxscan.Select(ctx, r.q, &rows,
		`SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]*entity.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// UnitRepo unidades de medida sobre PostgreSQL.
type UnitRepo struct {
	q Querier
}

func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

type unitRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Abbreviation string    `db:"abbreviation"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *UnitRepo) Create(ctx context.Context, u *entity.Unit) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO units (id, name, abbreviation, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Abbreviation, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	if !validID(id) {
		return nil, nil
	}
	var row unitRow
	err := pgxscan.Get(ctx, r.q, &row,
		`SELECT id, name, abbreviation, created_at, updated_at FROM units WHERE id = $1`, id)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	u := entity.Unit(row)
	return &u, nil
}

func (r *UnitRepo) List(ctx context.Context) ([]*entity.Unit, error) {
	var rows []unitRow
	if err := pgxscan.Select(ctx, r.q, &rows,
		`SELECT id, name, abbreviation, created_at, updated_at FROM units ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	out := make([]*entity.Unit, 0, len(rows))
	for _, row := range rows {
		u := entity.Unit(row)
		out = append(out, &u)
	}
	return out, nil
}
