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

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementsTable = "inventory_movements"

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

type movementRow struct {
	ID           string          `db:"id"`
	ProductID    string          `db:"product_id"`
	ProductName  string          `db:"product_name"`
	MovementType string          `db:"movement_type"`
	Quantity     decimal.Decimal `db:"quantity"`
	Reason       *string         `db:"reason"`
	MovementDate time.Time       `db:"movement_date"`
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    *string         `db:"created_by"`
	UpdatedAt    *time.Time      `db:"updated_at"`
	UpdatedBy    *string         `db:"updated_by"`
}

func (row movementRow) toEntity() *entity.InventoryMovement {
	m := &entity.InventoryMovement{
		ID:           row.ID,
		ProductID:    row.ProductID,
		ProductName:  row.ProductName,
		Type:         entity.MovementType(row.MovementType),
		Quantity:     row.Quantity,
		Reason:       deref(row.Reason),
		MovementDate: row.MovementDate,
		CreatedAt:    row.CreatedAt,
		CreatedBy:    deref(row.CreatedBy),
		UpdatedBy:    deref(row.UpdatedBy),
	}
	if row.UpdatedAt != nil {
		m.UpdatedAt = *row.UpdatedAt
	}
	return m
}

// selectMovements columnas + nombre del producto, sin orden.
func selectMovements() squirrel.SelectBuilder {
	return psql.Select(
		"m.id", "m.product_id", "p.name AS product_name", "m.movement_type", "m.quantity", "m.reason",
		"m.movement_date", "m.created_at", "m.created_by", "m.updated_at", "m.updated_by",
	).
		From(movementsTable + " m").
		Join("products p ON p.id = m.product_id")
}

// chronological orden de replay: movement_date, created_at, id.
func chronological(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	return b.OrderBy("m.movement_date ASC", "m.created_at ASC", "m.id ASC")
}

func (r *InventoryMovementRepo) list(ctx context.Context, b squirrel.SelectBuilder) ([]*entity.InventoryMovement, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build movements query: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, readErr("list movements", err)
	}
	out := make([]*entity.InventoryMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	sql, args, err := psql.Insert(movementsTable).
		Columns("id", "product_id", "movement_type", "quantity", "reason", "movement_date", "created_at", "created_by").
		Values(m.ID, m.ProductID, string(m.Type), m.Quantity, nullString(m.Reason), m.MovementDate, m.CreatedAt, nullString(m.CreatedBy)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return readErr("create inventory movement", err)
	}
	return nil
}

// Update reemplaza producto, tipo, cantidad y motivo. movement_date no cambia.
func (r *InventoryMovementRepo) Update(ctx context.Context, m *entity.InventoryMovement) error {
	sql, args, err := psql.Update(movementsTable).
		SetMap(map[string]any{
			"product_id":    m.ProductID,
			"movement_type": string(m.Type),
			"quantity":      m.Quantity,
			"reason":        nullString(m.Reason),
			"updated_at":    m.UpdatedAt,
			"updated_by":    nullString(m.UpdatedBy),
		}).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update movement: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update inventory movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("movimiento %s: %w", m.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *InventoryMovementRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_movements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	if !validID(id) {
		return nil, nil
	}
	list, err := r.list(ctx, selectMovements().Where(squirrel.Eq{"m.id": id}))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, productID string, until *time.Time) ([]*entity.InventoryMovement, error) {
	if !validID(productID) {
		return nil, nil
	}
	b := selectMovements().Where(squirrel.Eq{"m.product_id": productID})
	if until != nil {
		b = b.Where(squirrel.LtOrEq{"m.movement_date": *until})
	}
	return r.list(ctx, chronological(b))
}

// ListByFilter filtros de producto, categoría, unidad, tipo y rango de fechas (inclusivo).
func (r *InventoryMovementRepo) ListByFilter(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	if !validID(f.ProductID, f.CategoryID, f.UnitID) {
		return nil, nil
	}
	return r.list(ctx, filterMovements(f))
}

func filterMovements(f repository.MovementFilter) squirrel.SelectBuilder {
	b := selectMovements()
	if f.ProductID != "" {
		b = b.Where(squirrel.Eq{"m.product_id": f.ProductID})
	}
	if f.CategoryID != "" {
		b = b.Where(squirrel.Eq{"p.category_id": f.CategoryID})
	}
	if f.UnitID != "" {
		b = b.Where(squirrel.Eq{"p.unit_id": f.UnitID})
	}
	if f.Type != "" {
		b = b.Where(squirrel.Eq{"m.movement_type": string(f.Type)})
	}
	if f.From != nil {
		b = b.Where(squirrel.GtOrEq{"m.movement_date": *f.From})
	}
	if f.To != nil {
		b = b.Where(squirrel.LtOrEq{"m.movement_date": *f.To})
	}
	return chronological(b)
}

func (r *InventoryMovementRepo) ListRecent(ctx context.Context, limit int) ([]*entity.InventoryMovement, error) {
	b := selectMovements().
		OrderBy("m.movement_date DESC", "m.created_at DESC", "m.id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return r.list(ctx, b)
}

func (r *InventoryMovementRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	sql, args, err := psql.Select("COUNT(*)").From(movementsTable).
		Where(squirrel.GtOrEq{"movement_date": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count movements: %w", err)
	}
	var n int
	if err := pgxscan.Get(ctx, r.q, &n, sql, args...); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}
