package catalog

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

// Guard valida que las referencias al catálogo existan y estén activas.
// Una referencia inexistente o inactiva es un error de validación del request, no un 404.
type Guard struct {
	repo repository.CatalogRepository
}

// NewGuard construye el validador sobre el repositorio de catálogo.
func NewGuard(repo repository.CatalogRepository) *Guard {
	return &Guard{repo: repo}
}

// Warehouse devuelve la bodega si existe y está activa.
func (g *Guard) Warehouse(ctx context.Context, id int64) (*entity.Warehouse, error) {
	w, err := g.repo.GetWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.Validation("la bodega %d no existe", id)
	}
	if !w.Active {
		return nil, domain.Validation("la bodega %d está inactiva", id)
	}
	return w, nil
}

// Product devuelve el producto si existe y está activo.
func (g *Guard) Product(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := g.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.Validation("el producto %d no existe", id)
	}
	if !p.Active {
		return nil, domain.Validation("el producto %d está inactivo", id)
	}
	return p, nil
}

// Unit devuelve la unidad de medida si existe y está activa.
func (g *Guard) Unit(ctx context.Context, id int64) (*entity.UnitOfMeasure, error) {
	u, err := g.repo.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.Validation("la unidad de medida %d no existe", id)
	}
	if !u.Active {
		return nil, domain.Validation("la unidad de medida %d está inactiva", id)
	}
	return u, nil
}

// Provider devuelve el proveedor si existe y está activo.
func (g *Guard) Provider(ctx context.Context, id int64) (*entity.Provider, error) {
	p, err := g.repo.GetProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.Validation("el proveedor %d no existe", id)
	}
	if !p.Active {
		return nil, domain.Validation("el proveedor %d está inactivo", id)
	}
	return p, nil
}

// Item valida producto y unidad de una línea.
func (g *Guard) Item(ctx context.Context, productID, unitID int64) error {
	if _, err := g.Product(ctx, productID); err != nil {
		return err
	}
	_, err := g.Unit(ctx, unitID)
	return err
}

// StockTarget valida bodega, producto y unidad de una clave de saldo.
func (g *Guard) StockTarget(ctx context.Context, key entity.BalanceKey) error {
	if _, err := g.Warehouse(ctx, key.WarehouseID); err != nil {
		return err
	}
	return g.Item(ctx, key.ProductID, key.UnitID)
}
