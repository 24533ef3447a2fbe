package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Evaluate clasifica el saldo contra los umbrales: UNDERSTOCK si balance < min,
// OVERSTOCK si balance > max. ok=false cuando está dentro del rango.
func Evaluate(balance decimal.Decimal, min, max int) (entity.AlertType, bool) {
	if balance.LessThan(decimal.NewFromInt(int64(min))) {
		return entity.AlertTypeUnderstock, true
	}
	if balance.GreaterThan(decimal.NewFromInt(int64(max))) {
		return entity.AlertTypeOverstock, true
	}
	return "", false
}

// Violates indica si el saldo sigue violando el umbral correspondiente a t.
func Violates(balance decimal.Decimal, t entity.AlertType, min, max int) bool {
	switch t {
	case entity.AlertTypeUnderstock:
		return balance.LessThan(decimal.NewFromInt(int64(min)))
	case entity.AlertTypeOverstock:
		return balance.GreaterThan(decimal.NewFromInt(int64(max)))
	}
	return false
}
