package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con sus umbrales de stock.
// El saldo no se almacena: se deriva siempre del historial de movimientos.
type Product struct {
	ID           string
	CategoryID   string
	UnitID       string
	Name         string
	Description  string
	Price        decimal.Decimal // precio unitario (valorización)
	ThresholdMin int
	ThresholdMax int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
