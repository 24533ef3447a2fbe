package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name    string
		balance int64
		want    entity.AlertType
		ok      bool
	}{
		{"bajo el mínimo", 5, entity.AlertTypeUnderstock, true},
		{"igual al mínimo", 10, "", false},
		{"en rango", 50, "", false},
		{"igual al máximo", 100, "", false},
		{"sobre el máximo", 101, entity.AlertTypeOverstock, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := inventory.Evaluate(decimal.NewFromInt(tc.balance), 10, 100)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestViolates_SoloElTipoIndicado(t *testing.T) {
	low := decimal.NewFromInt(2)
	assert.True(t, inventory.Violates(low, entity.AlertTypeUnderstock, 10, 100))
	assert.False(t, inventory.Violates(low, entity.AlertTypeOverstock, 10, 100))
}

func TestIncidents_AbreYCierraTramos(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("m1", entity.MovementTypeEntry, 50, base),
		mov("m2", entity.MovementTypeExit, 45, base.Add(time.Hour)),     // 5 -> UNDERSTOCK
		mov("m3", entity.MovementTypeExit, 1, base.Add(2*time.Hour)),    // 4 -> sigue
		mov("m4", entity.MovementTypeEntry, 20, base.Add(3*time.Hour)),  // 24 -> resuelto
		mov("m5", entity.MovementTypeEntry, 200, base.Add(4*time.Hour)), // 224 -> OVERSTOCK
	}
	got := inventory.Incidents("p1", movs, 10, 100)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, entity.AlertTypeUnderstock, first.Type)
	assert.Equal(t, "m2", first.OpeningMovementID)
	assert.Equal(t, []string{"m2", "m3"}, first.MovementIDs)
	require.NotNil(t, first.ResolvedAt)
	assert.True(t, first.ResolvedAt.Equal(base.Add(3*time.Hour)))

	second := got[1]
	assert.Equal(t, entity.AlertTypeOverstock, second.Type)
	assert.Nil(t, second.ResolvedAt, "el producto sigue fuera de rango")
}

func TestIncidents_CambioDirectoDeTipo(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("m1", entity.MovementTypeAdjustment, 500, base),
		mov("m2", entity.MovementTypeAdjustment, 1, base.Add(time.Hour)),
	}
	got := inventory.Incidents("p1", movs, 10, 100)
	require.Len(t, got, 2)
	assert.Equal(t, entity.AlertTypeOverstock, got[0].Type)
	require.NotNil(t, got[0].ResolvedAt)
	assert.Equal(t, entity.AlertTypeUnderstock, got[1].Type)
}
