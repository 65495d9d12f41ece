package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura de bodegas, productos, unidades y proveedores. Las tablas las mantiene
// el módulo de catálogos; aquí solo se consulta id, nombre y si está activo.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

type catalogRow struct {
	id     int64
	name   string
	active bool
}

func (r *CatalogRepo) get(ctx context.Context, table string, id int64) (*catalogRow, error) {
	query := fmt.Sprintf(`SELECT id, name, active FROM %s WHERE id = $1`, table)
	var row catalogRow
	err := r.q.QueryRow(ctx, query, id).Scan(&row.id, &row.name, &row.active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return &row, nil
}

// GetWarehouse obtiene una bodega por ID.
func (r *CatalogRepo) GetWarehouse(ctx context.Context, id int64) (*entity.Warehouse, error) {
	row, err := r.get(ctx, "warehouses", id)
	if err != nil || row == nil {
		return nil, err
	}
	return &entity.Warehouse{ID: row.id, Name: row.name, Active: row.active}, nil
}

// GetProduct obtiene un producto por ID.
func (r *CatalogRepo) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	row, err := r.get(ctx, "products", id)
	if err != nil || row == nil {
		return nil, err
	}
	return &entity.Product{ID: row.id, Name: row.name, Active: row.active}, nil
}

// GetUnit obtiene una unidad de medida por ID.
func (r *CatalogRepo) GetUnit(ctx context.Context, id int64) (*entity.UnitOfMeasure, error) {
	row, err := r.get(ctx, "units_of_measure", id)
	if err != nil || row == nil {
		return nil, err
	}
	return &entity.UnitOfMeasure{ID: row.id, Name: row.name, Active: row.active}, nil
}

// GetProvider obtiene un proveedor por ID.
func (r *CatalogRepo) GetProvider(ctx context.Context, id int64) (*entity.Provider, error) {
	row, err := r.get(ctx, "providers", id)
	if err != nil || row == nil {
		return nil, err
	}
	return &entity.Provider{ID: row.id, Name: row.name, Active: row.active}, nil
}
