package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*Catalog)(nil)

// Catalog catálogos externos en memoria. Tiene su propio lock: se consulta desde dentro
// de las transacciones del Store.
type Catalog struct {
	mu         sync.RWMutex
	warehouses map[int64]entity.Warehouse
	products   map[int64]entity.Product
	units      map[int64]entity.UnitOfMeasure
	providers  map[int64]entity.Provider
}

// NewCatalog crea catálogos vacíos.
func NewCatalog() *Catalog {
	return &Catalog{
		warehouses: make(map[int64]entity.Warehouse),
		products:   make(map[int64]entity.Product),
		units:      make(map[int64]entity.UnitOfMeasure),
		providers:  make(map[int64]entity.Provider),
	}
}

// PutWarehouse registra o reemplaza una bodega.
func (c *Catalog) PutWarehouse(w entity.Warehouse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warehouses[w.ID] = w
}

// PutProduct registra o reemplaza un producto.
func (c *Catalog) PutProduct(p entity.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

// PutUnit registra o reemplaza una unidad de medida.
func (c *Catalog) PutUnit(u entity.UnitOfMeasure) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.units[u.ID] = u
}

// PutProvider registra o reemplaza un proveedor.
func (c *Catalog) PutProvider(p entity.Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[p.ID] = p
}

func (c *Catalog) GetWarehouse(_ context.Context, id int64) (*entity.Warehouse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if w, ok := c.warehouses[id]; ok {
		return &w, nil
	}
	return nil, nil
}

func (c *Catalog) GetProduct(_ context.Context, id int64) (*entity.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p, ok := c.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (c *Catalog) GetUnit(_ context.Context, id int64) (*entity.UnitOfMeasure, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if u, ok := c.units[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (c *Catalog) GetProvider(_ context.Context, id int64) (*entity.Provider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p, ok := c.providers[id]; ok {
		return &p, nil
	}
	return nil, nil
}
