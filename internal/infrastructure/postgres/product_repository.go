package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

type productRow struct {
	ID           string          `db:"id"`
	CategoryID   string          `db:"category_id"`
	UnitID       string          `db:"unit_id"`
	Name         string          `db:"name"`
	Description  *string         `db:"description"`
	Price        decimal.Decimal `db:"price"`
	ThresholdMin int             `db:"threshold_min"`
	ThresholdMax int             `db:"threshold_max"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

var productColumns = []string{
	"id", "category_id", "unit_id", "name", "description", "price",
	"threshold_min", "threshold_max", "created_at", "updated_at",
}

func selectProducts() squirrel.SelectBuilder {
	return psql.Select(productColumns...).From("products")
}

func (r *ProductRepo) one(ctx context.Context, b squirrel.SelectBuilder) (*entity.Product, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}
	var row productRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, readErr("get product", err)
	}
	return row.toEntity(), nil
}

func (row productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID:           row.ID,
		CategoryID:   row.CategoryID,
		UnitID:       row.UnitID,
		Name:         row.Name,
		Description:  deref(row.Description),
		Price:        row.Price,
		ThresholdMin: row.ThresholdMin,
		ThresholdMax: row.ThresholdMax,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	sql, args, err := psql.Insert("products").Columns(productColumns...).
		Values(p.ID, p.CategoryID, p.UnitID, p.Name, nullString(p.Description), p.Price,
			p.ThresholdMin, p.ThresholdMax, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert product: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return readErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (nil si no existe).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.one(ctx, selectProducts().Where(squirrel.Eq{"id": id}))
}

// GetForUpdate bloquea la fila del producto hasta el fin de la transacción en curso.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.one(ctx, selectProducts().Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	sql, args, err := psql.Update("products").
		SetMap(map[string]any{
			"category_id":   p.CategoryID,
			"unit_id":       p.UnitID,
			"name":          p.Name,
			"description":   nullString(p.Description),
			"price":         p.Price,
			"threshold_min": p.ThresholdMin,
			"threshold_max": p.ThresholdMax,
			"updated_at":    p.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update product: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("producto %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

// List todos los productos, por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	sql, args, err := selectProducts().OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := pgxscan.Get(ctx, r.q, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
