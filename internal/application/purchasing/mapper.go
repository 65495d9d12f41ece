package purchasing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// ToInvoiceResponse mapea la factura a la respuesta. Con items == nil (listados) se omiten detalle y total.
func ToInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:           inv.ID,
		ProviderID:   inv.ProviderID,
		WarehouseID:  inv.WarehouseID,
		Number:       inv.Number,
		Date:         inv.Date.Format(dto.DateLayout),
		Observation:  inv.Observation,
		Status:       string(inv.Status),
		CreatedBy:    inv.CreatedBy,
		ConfirmedBy:  inv.ConfirmedBy,
		ConfirmedAt:  inv.ConfirmedAt,
		CanceledBy:   inv.CanceledBy,
		CanceledAt:   inv.CanceledAt,
		CancelReason: inv.CancelReason,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
	if items == nil {
		return out
	}
	total := decimal.Zero
	out.Items = make([]dto.InvoiceItemResponse, 0, len(items))
	for _, it := range items {
		sub := it.Subtotal()
		total = total.Add(sub)
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			UnitID:      it.UnitID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    sub,
			Observation: it.Observation,
		})
	}
	out.Total = &total
	return out
}
