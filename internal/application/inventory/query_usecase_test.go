package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func TestListMovements_FiltrosYPaginacion(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		f.register(t, "ENTRY", 20)
	}
	f.register(t, "EXIT", 1)

	q := inventory.NewMovementQueryUseCase(f.movRepo, nil)

	page, err := q.ListMovements(ctx, dto.MovementListRequest{ProductID: "p1", Size: 3, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 8, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 2)

	page, err = q.ListMovements(ctx, dto.MovementListRequest{MovementType: "exit"})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	assert.Equal(t, "EXIT", page.Items[0].MovementType)
	assert.Equal(t, "Arroz 500g", page.Items[0].ProductName)

	// el reloj de prueba arranca el 2024-03-01
	page, err = q.ListMovements(ctx, dto.MovementListRequest{DateFrom: "2024-03-02"})
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalCount)
	assert.NotNil(t, page.Items)
}

func TestListMovements_EntradasInvalidas(t *testing.T) {
	f := newFixture(t, nil)
	q := inventory.NewMovementQueryUseCase(f.movRepo, nil)
	ctx := context.Background()

	for _, req := range []dto.MovementListRequest{
		{DateFrom: "01-03-2024"},
		{DateFrom: "2024-03-05", DateTo: "2024-03-01"},
		{MovementType: "REFUND"},
		{Sort: "precio"},
		{Page: -1},
	} {
		_, err := q.ListMovements(ctx, req)
		require.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", req)
	}
}

func TestGetMovementYRecientes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	q := inventory.NewMovementQueryUseCase(f.movRepo, nil)

	_, err := q.GetMovement(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)

	for i := 0; i < 12; i++ {
		f.register(t, "ENTRY", 1)
	}
	recent, err := q.ListRecentMovements(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, inventory.DefaultRecentLimit)
	assert.True(t, recent[0].MovementDate.After(recent[1].MovementDate))

	got, err := q.GetMovement(ctx, recent[0].ID)
	require.NoError(t, err)
	assert.Equal(t, recent[0].ID, got.ID)
}

func TestGenerateReplenishmentList_Prioridad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	movs := memory.NewMovementRepository(store)
	for _, p := range []*entity.Product{
		{ID: "a", Name: "Azúcar", ThresholdMin: 10, ThresholdMax: 50, Price: decimal.NewFromInt(3)},
		{ID: "b", Name: "Bicarbonato", ThresholdMin: 10, ThresholdMax: 40, Price: decimal.NewFromInt(1)},
		{ID: "c", Name: "Canela", ThresholdMin: 1, ThresholdMax: 5},
	} {
		require.NoError(t, products.Create(ctx, p))
	}
	// a: saldo 8 (déficit 20%), b: saldo 0 (déficit 100%), c: saldo 3 (en rango)
	f := func(id string, typ entity.MovementType, q int64, n int) {
		require.NoError(t, movs.Create(ctx, &entity.InventoryMovement{
			ID: id + string(rune('0'+n)), ProductID: id, Type: typ, Quantity: decimal.NewFromInt(q),
		}))
	}
	f("a", entity.MovementTypeAdjustment, 8, 0)
	f("c", entity.MovementTypeAdjustment, 3, 0)

	list, err := inventory.NewReplenishmentUseCase(products, movs, 30).GenerateReplenishmentList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ProductID)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].SuggestedOrderQty.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "a", list[1].ProductID)
	assert.True(t, list[1].SuggestedOrderQty.Equal(decimal.NewFromInt(42)))
	assert.True(t, list[1].EstimatedCost.Equal(decimal.NewFromInt(126)))
}
