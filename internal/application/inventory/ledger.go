package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/application/ports"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

// Ledger aplica movimientos al kardex. Es el único punto que modifica saldos:
// cada cambio de saldo queda acompañado de exactamente un movimiento, en la misma transacción.
type Ledger struct {
	ids ports.IDGenerator
}

// NewLedger construye el motor del kardex.
func NewLedger(ids ports.IDGenerator) *Ledger {
	return &Ledger{ids: ids}
}

// MovementInput datos de un movimiento. Direction solo se usa (y es obligatorio) para ADJUST.
type MovementInput struct {
	TransactionID string
	Type          entity.MovementType
	Direction     entity.Direction
	Key           entity.BalanceKey
	Quantity      decimal.Decimal
	Reference     string
	InvoiceID     *int64
	ActorID       int64
	At            time.Time
}

// RecordInTx actualiza el saldo y agrega el movimiento usando los repositorios de la transacción del caller.
// Una salida mayor al saldo devuelve INSUFFICIENT_STOCK y el caller debe abortar la transacción.
func (l *Ledger) RecordInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	in MovementInput,
) (*entity.StockBalance, *entity.StockMovement, error) {
	if !in.Quantity.IsPositive() {
		return nil, nil, domain.Validation("la cantidad debe ser mayor que cero")
	}
	if !entity.FitsScale(in.Quantity) {
		return nil, nil, domain.Validation("la cantidad admite máximo %d decimales: %s", entity.QuantityScale, in.Quantity.String())
	}
	dir, ok := in.Type.ResolveDirection(in.Direction)
	if !ok {
		return nil, nil, domain.Validation("sentido %q inválido para movimiento %s", in.Direction, in.Type)
	}

	var (
		bal *entity.StockBalance
		err error
	)
	if dir == entity.DirectionOut {
		bal, err = balanceRepo.Decrease(ctx, in.Key, in.Quantity, in.At)
	} else {
		bal, err = balanceRepo.Increase(ctx, in.Key, in.Quantity, in.At)
	}
	if err != nil {
		return nil, nil, err
	}

	mov := &entity.StockMovement{
		ID:            l.ids.NextID(),
		TransactionID: in.TransactionID,
		Type:          in.Type,
		Direction:     dir,
		BalanceKey:    in.Key,
		Quantity:      in.Quantity,
		Reference:     in.Reference,
		InvoiceID:     in.InvoiceID,
		CreatedBy:     in.ActorID,
		CreatedAt:     in.At,
	}
	if err := movRepo.Append(ctx, mov); err != nil {
		return nil, nil, err
	}
	return bal, mov, nil
}
