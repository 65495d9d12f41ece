package repository

import (
	"context"
	"time"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// MovementFilter filtros del kardex. Un ID en 0 no filtra.
type MovementFilter struct {
	WarehouseID int64
	ProductID   int64
	UnitID      int64
	InvoiceID   int64
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// StockMovementRepository puerto del kardex. Solo permite agregar y consultar.
type StockMovementRepository interface {
	Append(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve movimientos ordenados por fecha descendente.
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
}
