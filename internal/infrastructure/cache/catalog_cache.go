// Package cache guarda en Redis las consultas de catálogo que se repiten en cada movimiento
// (¿existe y está activa esta bodega/producto/unidad?).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

var _ repository.CatalogRepository = (*CatalogCache)(nil)

// catalogEntry forma en que se guarda cada fila; el ID va como string para no perder precisión.
type catalogEntry struct {
	ID     int64  `json:"id,string"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// CatalogCache decorador read-through de CatalogRepository. Solo se guardan filas inactivas:
// una respuesta "activa" siempre sale del origen, así una desactivación se ve de inmediato y
// ninguna mutación acepta una referencia que ya se cerró. Una reactivación se ve al expirar el TTL
// o al llegar el evento de cambio de catálogo (Invalidate). Si Redis falla se sirve desde el origen.
type CatalogCache struct {
	next   repository.CatalogRepository
	client redis.Cmdable
	ttl    time.Duration
	log    *logger.Logger
}

// NewCatalogCache envuelve next con la caché.
func NewCatalogCache(next repository.CatalogRepository, client redis.Cmdable, ttl time.Duration, log *logger.Logger) *CatalogCache {
	return &CatalogCache{next: next, client: client, ttl: ttl, log: log}
}

func cacheKey(kind string, id int64) string {
	return fmt.Sprintf("catalog:%s:%d", kind, id)
}

// lookup devuelve la entrada cacheada o la carga con load y la guarda.
func (c *CatalogCache) lookup(ctx context.Context, kind string, id int64, load func() (*catalogEntry, error)) (*catalogEntry, error) {
	key := cacheKey(kind, id)
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var e catalogEntry
		if jsonErr := json.Unmarshal(raw, &e); jsonErr != nil {
			c.log.Warn().Str("key", key).Msg("entrada de caché corrupta, se recarga")
		} else if !e.Active {
			return &e, nil
		}
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("redis no disponible, consulta directa")
		return load()
	}

	e, err := load()
	if err != nil || e == nil {
		return e, err
	}
	if e.Active {
		if len(raw) > 0 {
			c.forget(ctx, key)
		}
		return e, nil
	}
	if raw, err := json.Marshal(e); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar en caché")
		}
	}
	return e, nil
}

// Invalidate borra la entrada de un catálogo (p. ej. al reactivar una bodega).
func (c *CatalogCache) Invalidate(ctx context.Context, kind string, id int64) error {
	switch kind {
	case KindWarehouse, KindProduct, KindUnit, KindProvider:
	default:
		return fmt.Errorf("tipo de catálogo desconocido: %q", kind)
	}
	return c.client.Del(ctx, cacheKey(kind, id)).Err()
}

// forget borra una entrada que ya no corresponde (corrupta o de una fila activa).
func (c *CatalogCache) forget(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("no se pudo borrar de caché")
	}
}

// Tipos de catálogo usados en las claves.
const (
	KindWarehouse = "warehouse"
	KindProduct   = "product"
	KindUnit      = "unit"
	KindProvider  = "provider"
)

func (c *CatalogCache) GetWarehouse(ctx context.Context, id int64) (*entity.Warehouse, error) {
	e, err := c.lookup(ctx, KindWarehouse, id, func() (*catalogEntry, error) {
		w, err := c.next.GetWarehouse(ctx, id)
		if err != nil || w == nil {
			return nil, err
		}
		return &catalogEntry{ID: w.ID, Name: w.Name, Active: w.Active}, nil
	})
	if err != nil || e == nil {
		return nil, err
	}
	return &entity.Warehouse{ID: e.ID, Name: e.Name, Active: e.Active}, nil
}

func (c *CatalogCache) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	e, err := c.lookup(ctx, KindProduct, id, func() (*catalogEntry, error) {
		p, err := c.next.GetProduct(ctx, id)
		if err != nil || p == nil {
			return nil, err
		}
		return &catalogEntry{ID: p.ID, Name: p.Name, Active: p.Active}, nil
	})
	if err != nil || e == nil {
		return nil, err
	}
	return &entity.Product{ID: e.ID, Name: e.Name, Active: e.Active}, nil
}

func (c *CatalogCache) GetUnit(ctx context.Context, id int64) (*entity.UnitOfMeasure, error) {
	e, err := c.lookup(ctx, KindUnit, id, func() (*catalogEntry, error) {
		u, err := c.next.GetUnit(ctx, id)
		if err != nil || u == nil {
			return nil, err
		}
		return &catalogEntry{ID: u.ID, Name: u.Name, Active: u.Active}, nil
	})
	if err != nil || e == nil {
		return nil, err
	}
	return &entity.UnitOfMeasure{ID: e.ID, Name: e.Name, Active: e.Active}, nil
}

func (c *CatalogCache) GetProvider(ctx context.Context, id int64) (*entity.Provider, error) {
	e, err := c.lookup(ctx, KindProvider, id, func() (*catalogEntry, error) {
		p, err := c.next.GetProvider(ctx, id)
		if err != nil || p == nil {
			return nil, err
		}
		return &catalogEntry{ID: p.ID, Name: p.Name, Active: p.Active}, nil
	})
	if err != nil || e == nil {
		return nil, err
	}
	return &entity.Provider{ID: e.ID, Name: e.Name, Active: e.Active}, nil
}
