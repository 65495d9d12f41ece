package purchasing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/application/inventory"
	"github.com/jhoicas/costeo-api/internal/application/ports"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

// Confirm pasa la factura de DRAFT a CONFIRMED e ingresa al inventario cada ítem con un movimiento IN
// referenciado como INVOICE:<id>. Todos los saldos, movimientos y el cambio de estado se confirman juntos.
func (uc *InvoiceUseCase) Confirm(ctx context.Context, actorID int64, invoiceID string, in dto.ConfirmInvoiceRequest) (*dto.InvoiceResponse, error) {
	if actorID <= 0 {
		return nil, domain.Validation("actor requerido")
	}
	id, err := dto.ParseID("invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}

	// El catálogo se valida antes de abrir la transacción: con la fila bloqueada no se pide otra conexión.
	verified, err := uc.verifyConfirmable(ctx, id)
	if err != nil {
		uc.log.Debug().Err(err).Int64("invoice_id", id).Msg("confirmación rechazada")
		return nil, err
	}

	now := time.Now().UTC()
	txID := uuid.New().String()
	var (
		inv   *entity.Invoice
		items []*entity.InvoiceItem
	)
	err = uc.txRunner.RunPurchasing(ctx, func(invoiceRepo repository.InvoiceRepository, movRepo repository.StockMovementRepository, balanceRepo repository.StockBalanceRepository) error {
		var err error
		if inv, err = lockInvoice(ctx, invoiceRepo, id); err != nil {
			return err
		}
		if !inv.Status.CanTransitionTo(entity.InvoiceStatusConfirmed) {
			return domain.Validation("la factura %d está en estado %s y no se puede confirmar", id, inv.Status)
		}
		if items, err = invoiceRepo.ListItems(ctx, id); err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.Validation("la factura %d no tiene ítems", id)
		}
		if !verified.covers(inv, items) {
			return domain.Validation("la factura %d cambió mientras se confirmaba; vuelva a intentarlo", id)
		}

		ref := inv.StockReference()
		for _, it := range items {
			if _, _, err := uc.ledger.RecordInTx(ctx, movRepo, balanceRepo, inventory.MovementInput{
				TransactionID: txID,
				Type:          entity.MovementTypeIn,
				Key:           entity.BalanceKey{WarehouseID: inv.WarehouseID, ProductID: it.ProductID, UnitID: it.UnitID},
				Quantity:      it.Quantity,
				Reference:     ref,
				InvoiceID:     &inv.ID,
				ActorID:       actorID,
				At:            now,
			}); err != nil {
				return err
			}
		}

		inv.Status = entity.InvoiceStatusConfirmed
		inv.ConfirmedBy = &actorID
		inv.ConfirmedAt = &now
		if obs := strings.TrimSpace(in.Observation); obs != "" {
			inv.Observation = obs
		}
		inv.UpdatedAt = now
		return invoiceRepo.UpdateStatus(ctx, inv)
	})
	if err != nil {
		uc.log.Debug().Err(err).Int64("invoice_id", id).Msg("confirmación rechazada")
		return nil, err
	}

	out := ToInvoiceResponse(inv, items)
	uc.log.Info().Int64("invoice_id", id).Int64("actor_id", actorID).Str("transaction_id", txID).
		Int64("warehouse_id", inv.WarehouseID).Int("items", len(items)).Msg("factura confirmada")
	ports.Notify(ctx, uc.publisher, uc.log, ports.Event{
		Name: ports.EventInvoiceConfirmed, OccurredAt: now, ActorID: actorID, TransactionID: txID, Payload: out,
	})
	return out, nil
}

// verifiedRefs bodega y pares producto/unidad ya validados contra el catálogo.
type verifiedRefs struct {
	warehouseID int64
	items       map[[2]int64]bool
}

// covers indica si la factura bloqueada solo referencia lo que ya se validó.
func (v verifiedRefs) covers(inv *entity.Invoice, items []*entity.InvoiceItem) bool {
	if inv.WarehouseID != v.warehouseID {
		return false
	}
	for _, it := range items {
		if !v.items[[2]int64{it.ProductID, it.UnitID}] {
			return false
		}
	}
	return true
}

// verifyConfirmable lee la factura sin bloquearla y valida bodega y líneas contra el catálogo.
func (uc *InvoiceUseCase) verifyConfirmable(ctx context.Context, id int64) (verifiedRefs, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return verifiedRefs{}, err
	}
	if inv == nil {
		return verifiedRefs{}, domain.NotFound("la factura %d no existe", id)
	}
	if !inv.Status.CanTransitionTo(entity.InvoiceStatusConfirmed) {
		return verifiedRefs{}, domain.Validation("la factura %d está en estado %s y no se puede confirmar", id, inv.Status)
	}
	items, err := uc.invoiceRepo.ListItems(ctx, id)
	if err != nil {
		return verifiedRefs{}, err
	}
	if _, err := uc.guard.Warehouse(ctx, inv.WarehouseID); err != nil {
		return verifiedRefs{}, err
	}
	v := verifiedRefs{warehouseID: inv.WarehouseID, items: make(map[[2]int64]bool, len(items))}
	for _, it := range items {
		pair := [2]int64{it.ProductID, it.UnitID}
		if v.items[pair] {
			continue
		}
		if err := uc.guard.Item(ctx, it.ProductID, it.UnitID); err != nil {
			return verifiedRefs{}, err
		}
		v.items[pair] = true
	}
	return v, nil
}

// Cancel anula una factura CONFIRMED revirtiendo exactamente las cantidades ingresadas con movimientos OUT
// referenciados como CANCEL_INVOICE:<id>. Si algún saldo ya no alcanza (stock consumido después de la
// confirmación) la anulación completa falla con INSUFFICIENT_STOCK y nada cambia.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, actorID int64, invoiceID string, in dto.CancelInvoiceRequest) (*dto.InvoiceResponse, error) {
	if actorID <= 0 {
		return nil, domain.Validation("actor requerido")
	}
	id, err := dto.ParseID("invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.Validation("el motivo de anulación es requerido")
	}

	now := time.Now().UTC()
	txID := uuid.New().String()
	var (
		inv   *entity.Invoice
		items []*entity.InvoiceItem
	)
	err = uc.txRunner.RunPurchasing(ctx, func(invoiceRepo repository.InvoiceRepository, movRepo repository.StockMovementRepository, balanceRepo repository.StockBalanceRepository) error {
		var err error
		if inv, err = lockInvoice(ctx, invoiceRepo, id); err != nil {
			return err
		}
		if !inv.Status.CanTransitionTo(entity.InvoiceStatusCanceled) {
			return domain.Validation("la factura %d está en estado %s y no se puede anular", id, inv.Status)
		}
		if items, err = invoiceRepo.ListItems(ctx, id); err != nil {
			return err
		}

		ref := inv.CancelReference()
		for _, it := range items {
			// Decrease es condicional: si el saldo no alcanza devuelve INSUFFICIENT_STOCK y se aborta todo.
			if _, _, err := uc.ledger.RecordInTx(ctx, movRepo, balanceRepo, inventory.MovementInput{
				TransactionID: txID,
				Type:          entity.MovementTypeOut,
				Key:           entity.BalanceKey{WarehouseID: inv.WarehouseID, ProductID: it.ProductID, UnitID: it.UnitID},
				Quantity:      it.Quantity,
				Reference:     ref,
				InvoiceID:     &inv.ID,
				ActorID:       actorID,
				At:            now,
			}); err != nil {
				return err
			}
		}

		inv.Status = entity.InvoiceStatusCanceled
		inv.CanceledBy = &actorID
		inv.CanceledAt = &now
		inv.CancelReason = reason
		inv.UpdatedAt = now
		return invoiceRepo.UpdateStatus(ctx, inv)
	})
	if err != nil {
		uc.log.Debug().Err(err).Int64("invoice_id", id).Msg("anulación rechazada")
		return nil, err
	}

	out := ToInvoiceResponse(inv, items)
	uc.log.Info().Int64("invoice_id", id).Int64("actor_id", actorID).Str("transaction_id", txID).
		Str("reason", reason).Msg("factura anulada")
	ports.Notify(ctx, uc.publisher, uc.log, ports.Event{
		Name: ports.EventInvoiceCanceled, OccurredAt: now, ActorID: actorID, TransactionID: txID, Payload: out,
	})
	return out, nil
}
