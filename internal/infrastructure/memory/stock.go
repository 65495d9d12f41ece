package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var (
	_ repository.StockBalanceRepository  = (*balanceRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
)

type balanceRepo struct {
	db db
}

func (r *balanceRepo) Get(_ context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	var out *entity.StockBalance
	err := r.db.view(func(st *state) error {
		if b, ok := st.balances[key]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *balanceRepo) Increase(_ context.Context, key entity.BalanceKey, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error) {
	var out entity.StockBalance
	err := r.db.view(func(st *state) error {
		b, ok := st.balances[key]
		if !ok {
			b = entity.StockBalance{BalanceKey: key, Quantity: decimal.Zero}
		}
		b.Quantity = b.Quantity.Add(qty)
		b.UpdatedAt = at
		st.balances[key] = b
		out = b
		return nil
	})
	return &out, err
}

func (r *balanceRepo) Decrease(_ context.Context, key entity.BalanceKey, qty decimal.Decimal, at time.Time) (*entity.StockBalance, error) {
	var out entity.StockBalance
	err := r.db.view(func(st *state) error {
		b, ok := st.balances[key]
		available := decimal.Zero
		if ok {
			available = b.Quantity
		}
		if available.LessThan(qty) {
			return domain.InsufficientStock("stock insuficiente en bodega %d para producto %d/unidad %d: disponible %s, requerido %s",
				key.WarehouseID, key.ProductID, key.UnitID, available.String(), qty.String())
		}
		b.Quantity = available.Sub(qty)
		b.UpdatedAt = at
		st.balances[key] = b
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *balanceRepo) List(_ context.Context, f repository.BalanceFilter) ([]*entity.StockBalance, error) {
	var list []*entity.StockBalance
	err := r.db.view(func(st *state) error {
		for k, b := range st.balances {
			if (f.WarehouseID != 0 && k.WarehouseID != f.WarehouseID) ||
				(f.ProductID != 0 && k.ProductID != f.ProductID) ||
				(f.UnitID != 0 && k.UnitID != f.UnitID) {
				continue
			}
			b := b
			list = append(list, &b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		}
		return lessKey(list[i].BalanceKey, list[j].BalanceKey)
	})
	return page(list, f.Limit, f.Offset), nil
}

type movementRepo struct {
	db db
}

func (r *movementRepo) Append(_ context.Context, m *entity.StockMovement) error {
	return r.db.view(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	err := r.db.view(func(st *state) error {
		// recorrido inverso: más reciente primero, el orden de alta desempata
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if !matchMovement(m, f) {
				continue
			}
			list = append(list, &m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, f.Limit, f.Offset), nil
}

func matchMovement(m entity.StockMovement, f repository.MovementFilter) bool {
	switch {
	case f.WarehouseID != 0 && m.WarehouseID != f.WarehouseID:
		return false
	case f.ProductID != 0 && m.ProductID != f.ProductID:
		return false
	case f.UnitID != 0 && m.UnitID != f.UnitID:
		return false
	case f.InvoiceID != 0 && (m.InvoiceID == nil || *m.InvoiceID != f.InvoiceID):
		return false
	case f.From != nil && m.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && m.CreatedAt.After(*f.To):
		return false
	}
	return true
}

func lessKey(a, b entity.BalanceKey) bool {
	if a.WarehouseID != b.WarehouseID {
		return a.WarehouseID < b.WarehouseID
	}
	if a.ProductID != b.ProductID {
		return a.ProductID < b.ProductID
	}
	return a.UnitID < b.UnitID
}

// page aplica offset/limit; limit <= 0 devuelve todo desde offset.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
