package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*invoiceRepo)(nil)

type invoiceRepo struct {
	db db
}

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.db.view(func(st *state) error {
		if numberTaken(st, inv.ProviderID, inv.Number, 0) {
			return domain.Validation("el proveedor %d ya tiene una factura con número %q", inv.ProviderID, inv.Number)
		}
		st.invoices[inv.ID] = *inv
		return nil
	})
}

func (r *invoiceRepo) GetByID(_ context.Context, id int64) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.db.view(func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

// GetForUpdate no necesita bloqueo de fila: la transacción en memoria ya es exclusiva.
func (r *invoiceRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *invoiceRepo) NumberExists(_ context.Context, providerID int64, number string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.view(func(st *state) error {
		exists = numberTaken(st, providerID, number, excludeID)
		return nil
	})
	return exists, err
}

func (r *invoiceRepo) UpdateHeader(_ context.Context, inv *entity.Invoice) error {
	return r.db.view(func(st *state) error {
		cur, ok := st.invoices[inv.ID]
		if !ok {
			return domain.NotFound("la factura %d no existe", inv.ID)
		}
		if numberTaken(st, inv.ProviderID, inv.Number, inv.ID) {
			return domain.Validation("el proveedor %d ya tiene una factura con número %q", inv.ProviderID, inv.Number)
		}
		cur.ProviderID = inv.ProviderID
		cur.WarehouseID = inv.WarehouseID
		cur.Number = inv.Number
		cur.Date = inv.Date
		cur.Observation = inv.Observation
		cur.UpdatedAt = inv.UpdatedAt
		st.invoices[inv.ID] = cur
		return nil
	})
}

func (r *invoiceRepo) UpdateStatus(_ context.Context, inv *entity.Invoice) error {
	return r.db.view(func(st *state) error {
		cur, ok := st.invoices[inv.ID]
		if !ok {
			return domain.NotFound("la factura %d no existe", inv.ID)
		}
		cur.Status = inv.Status
		cur.Observation = inv.Observation
		cur.ConfirmedBy, cur.ConfirmedAt = inv.ConfirmedBy, inv.ConfirmedAt
		cur.CanceledBy, cur.CanceledAt = inv.CanceledBy, inv.CanceledAt
		cur.CancelReason = inv.CancelReason
		cur.UpdatedAt = inv.UpdatedAt
		st.invoices[inv.ID] = cur
		return nil
	})
}

func (r *invoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var list []*entity.Invoice
	err := r.db.view(func(st *state) error {
		for _, inv := range st.invoices {
			switch {
			case f.ProviderID != 0 && inv.ProviderID != f.ProviderID,
				f.WarehouseID != 0 && inv.WarehouseID != f.WarehouseID,
				f.Status != "" && inv.Status != f.Status,
				f.From != nil && inv.Date.Before(*f.From),
				f.To != nil && inv.Date.After(*f.To):
				continue
			}
			inv := inv
			list = append(list, &inv)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID > list[j].ID
	})
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *invoiceRepo) AddItem(_ context.Context, item *entity.InvoiceItem) error {
	return r.db.view(func(st *state) error {
		st.items[item.InvoiceID] = append(st.items[item.InvoiceID], *item)
		return nil
	})
}

func (r *invoiceRepo) ReplaceItems(_ context.Context, invoiceID int64, items []*entity.InvoiceItem) error {
	return r.db.view(func(st *state) error {
		next := make([]entity.InvoiceItem, 0, len(items))
		for _, it := range items {
			next = append(next, *it)
		}
		st.items[invoiceID] = next
		return nil
	})
}

func (r *invoiceRepo) DeleteItem(_ context.Context, invoiceID, itemID int64) (bool, error) {
	var deleted bool
	err := r.db.view(func(st *state) error {
		cur := st.items[invoiceID]
		for i, it := range cur {
			if it.ID == itemID {
				next := append([]entity.InvoiceItem(nil), cur[:i]...)
				st.items[invoiceID] = append(next, cur[i+1:]...)
				deleted = true
				return nil
			}
		}
		return nil
	})
	return deleted, err
}

func (r *invoiceRepo) ListItems(_ context.Context, invoiceID int64) ([]*entity.InvoiceItem, error) {
	list := make([]*entity.InvoiceItem, 0)
	err := r.db.view(func(st *state) error {
		for _, it := range st.items[invoiceID] {
			it := it
			list = append(list, &it)
		}
		return nil
	})
	return list, err
}

func numberTaken(st *state, providerID int64, number string, excludeID int64) bool {
	for id, inv := range st.invoices {
		if id != excludeID && inv.ProviderID == providerID && inv.Number == number {
			return true
		}
	}
	return false
}
