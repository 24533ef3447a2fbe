package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func TestFilterMovements_SinFiltros(t *testing.T) {
	sql, args, err := filterMovements(repository.MovementFilter{}).ToSql()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "JOIN products p ON p.id = m.product_id")
	assert.Contains(t, sql, "ORDER BY m.movement_date ASC, m.created_at ASC, m.id ASC")
}

func TestFilterMovements_TodosLosFiltros(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	sql, args, err := filterMovements(repository.MovementFilter{
		ProductID:  "p1",
		CategoryID: "c1",
		UnitID:     "u1",
		Type:       entity.MovementTypeExit,
		From:       &from,
		To:         &to,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "m.product_id = $1")
	assert.Contains(t, sql, "p.category_id = $2")
	assert.Contains(t, sql, "p.unit_id = $3")
	assert.Contains(t, sql, "m.movement_type = $4")
	assert.Contains(t, sql, "m.movement_date >= $5")
	assert.Contains(t, sql, "m.movement_date <= $6")
	assert.Equal(t, []any{"p1", "c1", "u1", "EXIT", from, to}, args)
}

func TestSchemaEmbebido(t *testing.T) {
	for _, table := range []string{"inventory_movements", "alerts", "products", "categories", "units", "users"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schemaSQL, "ON DELETE SET NULL", "borrar un movimiento desvincula sus alertas")
}
