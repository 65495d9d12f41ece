package repository

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// CatalogRepository puerto de solo lectura hacia los catálogos externos (bodegas, productos,
// unidades y proveedores). Devuelve nil, nil cuando el ID no existe.
type CatalogRepository interface {
	GetWarehouse(ctx context.Context, id int64) (*entity.Warehouse, error)
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	GetUnit(ctx context.Context, id int64) (*entity.UnitOfMeasure, error)
	GetProvider(ctx context.Context, id int64) (*entity.Provider, error)
}
