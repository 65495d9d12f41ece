package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación de StockBalanceRepository sobre PostgreSQL (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

const balanceColumns = `warehouse_id, product_id, unit_id, quantity, updated_at`

// Get obtiene el saldo actual; nil si nunca hubo movimientos para la clave.
func (r *StockBalanceRepo) Get(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + `
		FROM stock_balances WHERE warehouse_id = $1 AND product_id = $2 AND unit_id = $3`
	b, err := scanBalance(r.q.QueryRow(ctx, query, key.WarehouseID, key.ProductID, key.UnitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// Increase suma qty al saldo, creándolo en el primer ingreso.
func (r *StockBalanceRepo) Increase(ctx context.Context, key entity.BalanceKey, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error) {
	query := `
		INSERT INTO stock_balances (warehouse_id, product_id, unit_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (warehouse_id, product_id, unit_id)
		DO UPDATE SET quantity = stock_balances.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING ` + balanceColumns
	b, err := scanBalance(r.q.QueryRow(ctx, query, key.WarehouseID, key.ProductID, key.UnitID, qty, at))
	if err != nil {
		return nil, fmt.Errorf("increase balance: %w", err)
	}
	return b, nil
}

// Decrease resta qty con un UPDATE condicional: la comparación y la escritura son una sola sentencia,
// así dos salidas concurrentes sobre la misma clave no pueden dejar el saldo negativo.
func (r *StockBalanceRepo) Decrease(ctx context.Context, key entity.BalanceKey, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error) {
	query := `
		UPDATE stock_balances SET quantity = quantity - $4, updated_at = $5
		WHERE warehouse_id = $1 AND product_id = $2 AND unit_id = $3 AND quantity >= $4
		RETURNING ` + balanceColumns
	b, err := scanBalance(r.q.QueryRow(ctx, query, key.WarehouseID, key.ProductID, key.UnitID, qty, at))
	if err == nil {
		return b, nil
	}
	if isCheckViolation(err) {
		// La transacción quedó abortada: no se puede volver a leer el saldo.
		return nil, domain.InsufficientStock("stock insuficiente en bodega %d para producto %d/unidad %d: requerido %s",
			key.WarehouseID, key.ProductID, key.UnitID, qty.String())
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decrease balance: %w", err)
	}

	// Sin fila afectada: no existe el saldo o no alcanza. Se lee para el mensaje.
	cur, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	available := decimal.Zero
	if cur != nil {
		available = cur.Quantity
	}
	return nil, domain.InsufficientStock("stock insuficiente en bodega %d para producto %d/unidad %d: disponible %s, requerido %s",
		key.WarehouseID, key.ProductID, key.UnitID, available.String(), qty.String())
}

// List devuelve saldos filtrados, el más recientemente movido primero.
func (r *StockBalanceRepo) List(ctx context.Context, f repository.BalanceFilter) ([]*entity.StockBalance, error) {
	var w whereBuilder
	w.addIfID("warehouse_id = $%d", f.WarehouseID)
	w.addIfID("product_id = $%d", f.ProductID)
	w.addIfID("unit_id = $%d", f.UnitID)
	query := `SELECT ` + balanceColumns + ` FROM stock_balances` + w.sql() +
		` ORDER BY updated_at DESC, warehouse_id, product_id, unit_id` + w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockBalance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBalance(row pgx.Row) (*entity.StockBalance, error) {
	var b entity.StockBalance
	if err := row.Scan(&b.WarehouseID, &b.ProductID, &b.UnitID, &b.Quantity, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
