package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, transaction_id, type, direction, warehouse_id, product_id, unit_id,
	quantity, reference, invoice_id, created_by, created_at`

// Append persiste un movimiento.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	query := `INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TransactionID, m.Type, m.Direction, m.WarehouseID, m.ProductID, m.UnitID,
		m.Quantity, m.Reference, m.InvoiceID, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// List lista movimientos filtrados por bodega, producto, unidad, factura y rango de fechas.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var w whereBuilder
	w.addIfID("warehouse_id = $%d", f.WarehouseID)
	w.addIfID("product_id = $%d", f.ProductID)
	w.addIfID("unit_id = $%d", f.UnitID)
	w.addIfID("invoice_id = $%d", f.InvoiceID)
	if f.From != nil {
		w.add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= $%d", *f.To)
	}
	query := `SELECT ` + movementColumns + ` FROM stock_movements` + w.sql() +
		` ORDER BY created_at DESC, id DESC` + w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(&m.ID, &m.TransactionID, &m.Type, &m.Direction, &m.WarehouseID, &m.ProductID, &m.UnitID,
		&m.Quantity, &m.Reference, &m.InvoiceID, &m.CreatedBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
