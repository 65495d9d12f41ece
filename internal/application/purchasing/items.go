package purchasing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

// AddItem agrega una línea a una factura en DRAFT.
// Exige producto y unidad activos, cantidad > 0 y precio unitario > 0.
func (uc *InvoiceUseCase) AddItem(ctx context.Context, actorID int64, invoiceID string, in dto.InvoiceItemRequest) (*dto.InvoiceResponse, error) {
	if actorID <= 0 {
		return nil, domain.Validation("actor requerido")
	}
	id, err := dto.ParseID("invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	item, err := uc.buildItem(ctx, id, in, true, now)
	if err != nil {
		return nil, err
	}

	return uc.mutateItems(ctx, id, func(invoiceRepo repository.InvoiceRepository) error {
		return invoiceRepo.AddItem(ctx, item)
	})
}

// ReplaceItems sustituye todas las líneas de una factura en DRAFT. Una lista vacía deja la factura sin ítems.
// El precio unitario puede ser cero (p. ej. bonificaciones), nunca negativo.
func (uc *InvoiceUseCase) ReplaceItems(ctx context.Context, actorID int64, invoiceID string, in dto.ReplaceItemsRequest) (*dto.InvoiceResponse, error) {
	if actorID <= 0 {
		return nil, domain.Validation("actor requerido")
	}
	id, err := dto.ParseID("invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	items := make([]*entity.InvoiceItem, 0, len(in.Items))
	for i, req := range in.Items {
		item, err := uc.buildItem(ctx, id, req, false, now)
		if err != nil {
			var de *domain.Error
			if errors.As(err, &de) {
				return nil, &domain.Error{Kind: de.Kind, Message: fmt.Sprintf("ítem %d: %s", i+1, de.Message)}
			}
			return nil, err
		}
		items = append(items, item)
	}

	return uc.mutateItems(ctx, id, func(invoiceRepo repository.InvoiceRepository) error {
		return invoiceRepo.ReplaceItems(ctx, id, items)
	})
}

// RemoveItem elimina una línea de una factura en DRAFT.
func (uc *InvoiceUseCase) RemoveItem(ctx context.Context, actorID int64, invoiceID, itemID string) (*dto.InvoiceResponse, error) {
	if actorID <= 0 {
		return nil, domain.Validation("actor requerido")
	}
	id, err := dto.ParseID("invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	iid, err := dto.ParseID("item_id", itemID)
	if err != nil {
		return nil, err
	}

	return uc.mutateItems(ctx, id, func(invoiceRepo repository.InvoiceRepository) error {
		deleted, err := invoiceRepo.DeleteItem(ctx, id, iid)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.NotFound("el ítem %d no existe en la factura %d", iid, id)
		}
		return nil
	})
}

// mutateItems bloquea la factura, verifica que siga en DRAFT y aplica fn en la misma transacción.
func (uc *InvoiceUseCase) mutateItems(ctx context.Context, id int64, fn func(repository.InvoiceRepository) error) (*dto.InvoiceResponse, error) {
	var (
		inv   *entity.Invoice
		items []*entity.InvoiceItem
	)
	err := uc.txRunner.RunPurchasing(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.StockMovementRepository, _ repository.StockBalanceRepository) error {
		var err error
		if inv, err = lockInvoice(ctx, invoiceRepo, id); err != nil {
			return err
		}
		if !inv.Status.Editable() {
			return domain.Validation("la factura %d está en estado %s y sus ítems no se pueden modificar", id, inv.Status)
		}
		if err := fn(invoiceRepo); err != nil {
			return err
		}
		items, err = invoiceRepo.ListItems(ctx, id)
		return err
	})
	if err != nil {
		uc.log.Debug().Err(err).Int64("invoice_id", id).Msg("cambio de ítems rechazado")
		return nil, err
	}
	return ToInvoiceResponse(inv, items), nil
}

func (uc *InvoiceUseCase) buildItem(ctx context.Context, invoiceID int64, in dto.InvoiceItemRequest, requirePrice bool, at time.Time) (*entity.InvoiceItem, error) {
	productID, err := dto.ParseID("product_id", in.ProductID)
	if err != nil {
		return nil, err
	}
	unitID, err := dto.ParseID("unit_id", in.UnitID)
	if err != nil {
		return nil, err
	}
	if err := dto.CheckQuantity("quantity", in.Quantity); err != nil {
		return nil, err
	}
	if err := dto.CheckPrice("unit_price", in.UnitPrice, requirePrice); err != nil {
		return nil, err
	}
	if err := uc.guard.Item(ctx, productID, unitID); err != nil {
		return nil, err
	}
	return &entity.InvoiceItem{
		ID:          uc.ids.NextID(),
		InvoiceID:   invoiceID,
		ProductID:   productID,
		UnitID:      unitID,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Observation: strings.TrimSpace(in.Observation),
		CreatedAt:   at,
	}, nil
}
