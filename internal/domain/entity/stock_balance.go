package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceKey identifica un saldo. Dos unidades del mismo producto en la misma bodega
// son saldos distintos: no hay conversión automática de unidades.
type BalanceKey struct {
	WarehouseID int64
	ProductID   int64
	UnitID      int64
}

// StockBalance representa la cantidad actual de un producto/unidad en una bodega.
// Se crea en el primer movimiento, nunca se borra y su cantidad nunca es negativa.
type StockBalance struct {
	BalanceKey
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
