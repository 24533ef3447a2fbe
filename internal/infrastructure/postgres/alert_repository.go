package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo alertas de umbral sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

type alertRow struct {
	ID           string          `db:"id"`
	ProductID    string          `db:"product_id"`
	ProductName  string          `db:"product_name"`
	MovementID   *string         `db:"movement_id"`
	AlertType    string          `db:"alert_type"`
	TriggeredAt  time.Time       `db:"triggered_at"`
	IsRead       bool            `db:"is_read"`
	ThresholdMin int             `db:"threshold_min"`
	ThresholdMax int             `db:"threshold_max"`
	Balance      decimal.Decimal `db:"balance"`
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    *string         `db:"created_by"`
	UpdatedAt    *time.Time      `db:"updated_at"`
	UpdatedBy    *string         `db:"updated_by"`
}

func (row alertRow) toEntity() *entity.Alert {
	a := &entity.Alert{
		ID:           row.ID,
		ProductID:    row.ProductID,
		ProductName:  row.ProductName,
		MovementID:   deref(row.MovementID),
		Type:         entity.AlertType(row.AlertType),
		TriggeredAt:  row.TriggeredAt,
		IsRead:       row.IsRead,
		ThresholdMin: row.ThresholdMin,
		ThresholdMax: row.ThresholdMax,
		Balance:      row.Balance,
		CreatedAt:    row.CreatedAt,
		CreatedBy:    deref(row.CreatedBy),
		UpdatedBy:    deref(row.UpdatedBy),
	}
	if row.UpdatedAt != nil {
		a.UpdatedAt = *row.UpdatedAt
	}
	return a
}

func selectAlerts() squirrel.SelectBuilder {
	return psql.Select(
		"a.id", "a.product_id", "p.name AS product_name", "a.movement_id", "a.alert_type", "a.triggered_at",
		"a.is_read", "a.threshold_min", "a.threshold_max", "a.balance",
		"a.created_at", "a.created_by", "a.updated_at", "a.updated_by",
	).
		From("alerts a").
		Join("products p ON p.id = a.product_id").
		OrderBy("a.triggered_at DESC", "a.id DESC")
}

func (r *AlertRepo) list(ctx context.Context, b squirrel.SelectBuilder) ([]*entity.Alert, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build alerts query: %w", err)
	}
	var rows []alertRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, readErr("list alerts", err)
	}
	out := make([]*entity.Alert, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *AlertRepo) exec(ctx context.Context, b squirrel.Sqlizer, op string) (int, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s: %w", op, err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, readErr(op, err)
	}
	return int(tag.RowsAffected()), nil
}

// Create persiste la alerta con la foto de umbrales y saldo.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	_, err := r.exec(ctx, psql.Insert("alerts").
		Columns("id", "product_id", "movement_id", "alert_type", "triggered_at", "is_read",
			"threshold_min", "threshold_max", "balance", "created_at", "created_by").
		Values(a.ID, a.ProductID, nullString(a.MovementID), string(a.Type), a.TriggeredAt, a.IsRead,
			a.ThresholdMin, a.ThresholdMax, a.Balance, a.CreatedAt, nullString(a.CreatedBy)),
		"create alert")
	return err
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	if !validID(id) {
		return nil, nil
	}
	list, err := r.list(ctx, selectAlerts().Where(squirrel.Eq{"a.id": id}))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *AlertRepo) ListUnread(ctx context.Context) ([]*entity.Alert, error) {
	return r.list(ctx, selectAlerts().Where(squirrel.Eq{"a.is_read": false}))
}

func (r *AlertRepo) ListAll(ctx context.Context) ([]*entity.Alert, error) {
	return r.list(ctx, selectAlerts())
}

func (r *AlertRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Alert, error) {
	if !validID(productID) {
		return nil, nil
	}
	return r.list(ctx, selectAlerts().Where(squirrel.Eq{"a.product_id": productID}))
}

// MarkRead devuelve cuántas alertas pasaron de no leídas a leídas.
func (r *AlertRepo) MarkRead(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 || !validID(ids...) {
		return 0, nil
	}
	return r.exec(ctx, psql.Update("alerts").
		Set("is_read", true).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": ids, "is_read": false}),
		"mark alerts read")
}

func (r *AlertRepo) MarkAllRead(ctx context.Context) (int, error) {
	return r.exec(ctx, psql.Update("alerts").
		Set("is_read", true).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"is_read": false}),
		"mark all alerts read")
}

func (r *AlertRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	_, err := r.exec(ctx, psql.Delete("alerts").Where(squirrel.Eq{"id": id}), "delete alert")
	return err
}

func (r *AlertRepo) DetachMovement(ctx context.Context, movementID string) error {
	if !validID(movementID) {
		return nil
	}
	_, err := r.exec(ctx, psql.Update("alerts").
		Set("movement_id", nil).
		Where(squirrel.Eq{"movement_id": movementID}),
		"detach alerts")
	return err
}

func (r *AlertRepo) CountUnread(ctx context.Context) (int, error) {
	var n int
	if err := pgxscan.Get(ctx, r.q, &n, `SELECT COUNT(*) FROM alerts WHERE is_read = false`); err != nil {
		return 0, fmt.Errorf("count unread alerts: %w", err)
	}
	return n, nil
}
