package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Effect efecto de un movimiento sobre el saldo. Conjunto cerrado: Entry, Exit y SetTo.
type Effect interface {
	Apply(balance decimal.Decimal) decimal.Decimal
	sealed()
}

// Entry suma la cantidad al saldo.
type Entry struct{ Quantity decimal.Decimal }

// Exit resta la cantidad del saldo.
type Exit struct{ Quantity decimal.Decimal }

// SetTo reemplaza el saldo por un valor absoluto (ajuste por conteo físico).
type SetTo struct{ Quantity decimal.Decimal }

func (e Entry) Apply(b decimal.Decimal) decimal.Decimal { return b.Add(e.Quantity) }
func (e Exit) Apply(b decimal.Decimal) decimal.Decimal  { return b.Sub(e.Quantity) }
func (e SetTo) Apply(decimal.Decimal) decimal.Decimal   { return e.Quantity }

func (Entry) sealed() {}
func (Exit) sealed()  {}
func (SetTo) sealed() {}

// EffectOf traduce el tipo del movimiento a su efecto.
func EffectOf(m *entity.InventoryMovement) (Effect, error) {
	switch m.Type {
	case entity.MovementTypeEntry:
		return Entry{Quantity: m.Quantity}, nil
	case entity.MovementTypeExit:
		return Exit{Quantity: m.Quantity}, nil
	case entity.MovementTypeAdjustment:
		return SetTo{Quantity: m.Quantity}, nil
	}
	return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, m.Type)
}

// Step aplica un movimiento al saldo y lo acota a cero por debajo.
// Tipos desconocidos no alteran el saldo.
func Step(balance decimal.Decimal, m *entity.InventoryMovement) decimal.Decimal {
	eff, err := EffectOf(m)
	if err != nil {
		return balance
	}
	next := eff.Apply(balance)
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}

// SortChronologically ordena in-place por MovementDate; empates por CreatedAt y luego ID.
func SortChronologically(movs []*entity.InventoryMovement) {
	sort.SliceStable(movs, func(i, j int) bool {
		a, b := movs[i], movs[j]
		if !a.MovementDate.Equal(b.MovementDate) {
			return a.MovementDate.Before(b.MovementDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func chronological(movs []*entity.InventoryMovement) []*entity.InventoryMovement {
	out := make([]*entity.InventoryMovement, len(movs))
	copy(out, movs)
	SortChronologically(out)
	return out
}

// Replay reconstruye el saldo a partir del historial completo. Historial vacío = 0.
func Replay(movs []*entity.InventoryMovement) decimal.Decimal {
	balance := decimal.Zero
	for _, m := range chronological(movs) {
		balance = Step(balance, m)
	}
	return balance
}

// ReplayUntil como Replay pero considerando solo movimientos con MovementDate <= cutoff.
func ReplayUntil(movs []*entity.InventoryMovement, cutoff time.Time) decimal.Decimal {
	balance := decimal.Zero
	for _, m := range chronological(movs) {
		if m.MovementDate.After(cutoff) {
			break
		}
		balance = Step(balance, m)
	}
	return balance
}

// BalanceSeries devuelve el saldo en cada corte (cutoffs ascendentes) con una sola pasada.
func BalanceSeries(movs []*entity.InventoryMovement, cutoffs []time.Time) []decimal.Decimal {
	sorted := chronological(movs)
	out := make([]decimal.Decimal, len(cutoffs))
	balance := decimal.Zero
	i := 0
	for k, cutoff := range cutoffs {
		for i < len(sorted) && !sorted[i].MovementDate.After(cutoff) {
			balance = Step(balance, sorted[i])
			i++
		}
		out[k] = balance
	}
	return out
}
