package alerts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/alerts"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

type fixture struct {
	movements *inventory.MovementUseCase
	alerts    *alerts.AlertUseCase
	alertRepo *memory.AlertRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	require.NoError(t, products.Create(context.Background(), &entity.Product{
		ID: "p1", Name: "Harina", ThresholdMin: 10, ThresholdMax: 100,
	}))
	movRepo := memory.NewMovementRepository(store)
	alertRepo := memory.NewAlertRepository(store)

	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	mu := inventory.NewMovementUseCase(memory.NewTxRunner(store), movRepo,
		inventory.NewThresholdMonitor(inventory.NewBalanceReplayer(movRepo, nil)), nil, false, nil, nil, nil).
		WithClock(func() time.Time { clock = clock.Add(time.Hour); return clock })

	return &fixture{
		movements: mu,
		alerts:    alerts.NewAlertUseCase(alertRepo, movRepo, products),
		alertRepo: alertRepo,
	}
}

func (f *fixture) write(t *testing.T, typ string, qty int64) {
	t.Helper()
	_, err := f.movements.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		ProductID: "p1", Type: typ, Quantity: decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Vista crítica
// ──────────────────────────────────────────────────────────────────────────────

func TestListCritical_ExcluyeAlertasResueltasSinTocarlas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.write(t, "ENTRY", 50)
	f.write(t, "EXIT", 45) // UNDERSTOCK

	critical, err := f.alerts.ListCritical(ctx)
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.True(t, critical[0].Balance.Equal(decimal.NewFromInt(5)))

	f.write(t, "ENTRY", 20) // saldo 25, resuelto

	critical, err = f.alerts.ListCritical(ctx)
	require.NoError(t, err)
	assert.Empty(t, critical)

	unread, err := f.alerts.PeekUnread(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1, "la alerta resuelta no se marca ni se borra")
	assert.False(t, unread[0].IsRead)
}

func TestListCritical_SoloElTipoDeLaAlerta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.write(t, "ENTRY", 5)        // UNDERSTOCK
	f.write(t, "ADJUSTMENT", 500) // OVERSTOCK

	critical, err := f.alerts.ListCritical(ctx)
	require.NoError(t, err)
	require.Len(t, critical, 1, "el UNDERSTOCK ya no aplica con saldo 500")
	assert.Equal(t, "OVERSTOCK", critical[0].AlertType)
}

// ──────────────────────────────────────────────────────────────────────────────
// Drenar vs consultar
// ──────────────────────────────────────────────────────────────────────────────

func TestDrainUnread_MarcaLoDevuelto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.write(t, "ENTRY", 1)
	f.write(t, "ENTRY", 1)

	peek, err := f.alerts.PeekUnread(ctx)
	require.NoError(t, err)
	require.Len(t, peek, 2)
	assert.True(t, peek[0].TriggeredAt.After(peek[1].TriggeredAt), "más recientes primero")

	drained, err := f.alerts.DrainUnread(ctx)
	require.NoError(t, err)
	assert.Len(t, drained, 2)

	again, err := f.alerts.DrainUnread(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	n, err := f.alerts.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := f.alerts.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Marcado y borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkRead_IdempotenteYNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.write(t, "ENTRY", 1)
	all, err := f.alerts.ListAll(ctx)
	require.NoError(t, err)
	id := all[0].ID

	for i := 0; i < 2; i++ {
		got, err := f.alerts.MarkRead(ctx, id)
		require.NoError(t, err)
		assert.True(t, got.IsRead)
	}

	_, err = f.alerts.MarkRead(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkAllRead_DevuelveCantidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.write(t, "ENTRY", 1)
	f.write(t, "ENTRY", 1)
	f.write(t, "ENTRY", 1)

	n, err := f.alerts.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = f.alerts.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDelete_HardDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.write(t, "ENTRY", 1)
	all, err := f.alerts.ListAll(ctx)
	require.NoError(t, err)

	require.NoError(t, f.alerts.Delete(ctx, all[0].ID))
	require.ErrorIs(t, f.alerts.Delete(ctx, all[0].ID), domain.ErrNotFound)

	all, err = f.alerts.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// ──────────────────────────────────────────────────────────────────────────────
// Incidentes
// ──────────────────────────────────────────────────────────────────────────────

func TestIncidents_AgrupaAlertasPorEpisodio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.write(t, "ENTRY", 50)
	f.write(t, "EXIT", 45) // abre UNDERSTOCK
	f.write(t, "EXIT", 1)  // sigue
	f.write(t, "ENTRY", 20)
	f.write(t, "ADJUSTMENT", 300) // abre OVERSTOCK

	got, err := f.alerts.Incidents(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// más recientes primero
	assert.Equal(t, "OVERSTOCK", got[0].AlertType)
	assert.Nil(t, got[0].ResolvedAt)
	assert.Equal(t, 1, got[0].AlertCount)

	assert.Equal(t, "UNDERSTOCK", got[1].AlertType)
	require.NotNil(t, got[1].ResolvedAt)
	assert.Equal(t, 2, got[1].AlertCount)

	_, err = f.alerts.Incidents(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fan-out
// ──────────────────────────────────────────────────────────────────────────────

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) NotifyAlert(context.Context, *entity.Alert) error {
	s.calls++
	return s.err
}

func TestFanOut_EntregaATodosAunqueUnoFalle(t *testing.T) {
	down := &stubNotifier{err: errors.New("smtp timeout")}
	ok := &stubNotifier{}
	f := alerts.NewFanOut(
		alerts.Sink{Name: "email", Notifier: down},
		alerts.Sink{Name: "kafka", Notifier: ok},
		alerts.Sink{Name: "vacío"},
	)
	assert.Equal(t, 2, f.Len())

	err := f.NotifyAlert(context.Background(), &entity.Alert{ID: "a1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Equal(t, 1, down.calls)
	assert.Equal(t, 1, ok.calls)
}
