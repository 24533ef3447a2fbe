package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func mov(id string, t entity.MovementType, qty int64, at time.Time) *entity.InventoryMovement {
	return &entity.InventoryMovement{
		ID:           id,
		ProductID:    "p1",
		Type:         t,
		Quantity:     decimal.NewFromInt(qty),
		MovementDate: at,
		CreatedAt:    at,
	}
}

func requireDec(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.NewFromInt(want).Equal(got), "esperado %d, obtenido %s", want, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// Replay
// ──────────────────────────────────────────────────────────────────────────────

func TestReplay_HistorialVacio_EsCero(t *testing.T) {
	requireDec(t, 0, inventory.Replay(nil))
}

func TestReplay_EntradasYSalidas(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("a", entity.MovementTypeEntry, 50, base),
		mov("b", entity.MovementTypeExit, 45, base.Add(time.Hour)),
		mov("c", entity.MovementTypeEntry, 20, base.Add(2*time.Hour)),
	}
	requireDec(t, 25, inventory.Replay(movs))
}

func TestReplay_OrdenaPorFechaDeMovimiento(t *testing.T) {
	// Registrado fuera de orden: el ajuste ocurrió después de la entrada.
	movs := []*entity.InventoryMovement{
		mov("adj", entity.MovementTypeAdjustment, 7, base.Add(2*time.Hour)),
		mov("in", entity.MovementTypeEntry, 100, base),
	}
	requireDec(t, 7, inventory.Replay(movs))
}

func TestReplay_SalidaNoBajaDeCero(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("a", entity.MovementTypeEntry, 5, base),
		mov("b", entity.MovementTypeExit, 10, base.Add(time.Minute)),
		mov("c", entity.MovementTypeEntry, 3, base.Add(2*time.Minute)),
	}
	// el acotamiento ocurre en cada paso, no al final
	requireDec(t, 3, inventory.Replay(movs))
}

func TestReplay_AjusteFijaValorAbsoluto(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("a", entity.MovementTypeEntry, 40, base),
		mov("b", entity.MovementTypeAdjustment, 12, base.Add(time.Minute)),
		mov("c", entity.MovementTypeExit, 2, base.Add(2*time.Minute)),
	}
	requireDec(t, 10, inventory.Replay(movs))
}

func TestReplay_EmpateDeFechaUsaCreatedAtYLuegoID(t *testing.T) {
	a := mov("b-adj", entity.MovementTypeAdjustment, 5, base)
	b := mov("a-in", entity.MovementTypeEntry, 10, base)
	// mismo MovementDate y CreatedAt: decide el ID ("a-in" < "b-adj")
	requireDec(t, 5, inventory.Replay([]*entity.InventoryMovement{a, b}))

	b.CreatedAt = base.Add(time.Second)
	// ahora la entrada se registró después del ajuste
	requireDec(t, 15, inventory.Replay([]*entity.InventoryMovement{a, b}))
}

func TestReplay_NoModificaElSliceOriginal(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("z", entity.MovementTypeEntry, 1, base.Add(time.Hour)),
		mov("y", entity.MovementTypeEntry, 1, base),
	}
	inventory.Replay(movs)
	assert.Equal(t, "z", movs[0].ID)
}

func TestReplayUntil_IgnoraMovimientosPosteriores(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("a", entity.MovementTypeEntry, 10, base),
		mov("b", entity.MovementTypeEntry, 5, base.Add(24*time.Hour)),
	}
	requireDec(t, 10, inventory.ReplayUntil(movs, base.Add(time.Hour)))
	requireDec(t, 15, inventory.ReplayUntil(movs, base.Add(24*time.Hour)))
	requireDec(t, 0, inventory.ReplayUntil(movs, base.Add(-time.Second)))
}

func TestBalanceSeries_CoincideConReplayUntil(t *testing.T) {
	movs := []*entity.InventoryMovement{
		mov("a", entity.MovementTypeEntry, 10, base),
		mov("b", entity.MovementTypeExit, 4, base.Add(26*time.Hour)),
		mov("c", entity.MovementTypeAdjustment, 30, base.Add(50*time.Hour)),
	}
	cutoffs := []time.Time{
		base.Add(-time.Hour),
		base.Add(time.Hour),
		base.Add(27 * time.Hour),
		base.Add(72 * time.Hour),
	}
	series := inventory.BalanceSeries(movs, cutoffs)
	require.Len(t, series, len(cutoffs))
	for i, c := range cutoffs {
		assert.True(t, inventory.ReplayUntil(movs, c).Equal(series[i]), "corte %d", i)
	}
}

func TestEffectOf_TipoDesconocido(t *testing.T) {
	_, err := inventory.EffectOf(&entity.InventoryMovement{Type: "TRANSFER"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseMovementType_Normaliza(t *testing.T) {
	mt, ok := entity.ParseMovementType("  exit ")
	require.True(t, ok)
	assert.Equal(t, entity.MovementTypeExit, mt)

	_, ok = entity.ParseMovementType("transfer")
	assert.False(t, ok)
}
