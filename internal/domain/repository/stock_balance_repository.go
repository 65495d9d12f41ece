package repository

import (
	"context"
	"time"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BalanceFilter filtros de consulta de saldos. Un ID en 0 no filtra.
type BalanceFilter struct {
	WarehouseID int64
	ProductID   int64
	UnitID      int64
	Limit       int
	Offset      int
}

// StockBalanceRepository puerto para consultar/actualizar saldos por (bodega, producto, unidad).
// Increase y Decrease se usan dentro de una transacción junto con el alta del movimiento.
type StockBalanceRepository interface {
	// Get devuelve el saldo o nil si aún no existe.
	Get(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error)
	// Increase suma qty al saldo, creándolo si no existe.
	Increase(ctx context.Context, key entity.BalanceKey, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error)
	// Decrease resta qty solo si el saldo alcanza (actualización condicional);
	// si no, devuelve un error de tipo domain.KindInsufficientStock.
	Decrease(ctx context.Context, key entity.BalanceKey, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error)
	// List devuelve saldos ordenados por última actualización descendente.
	List(ctx context.Context, f BalanceFilter) ([]*entity.StockBalance, error)
}
