package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-api/internal/application/catalog"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/infrastructure/cache"
	"github.com/jhoicas/costeo-api/internal/infrastructure/memory"
	"github.com/jhoicas/costeo-api/pkg/config"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

// countingCatalog cuenta las consultas que llegan al origen.
type countingCatalog struct {
	*memory.Catalog
	warehouseHits int
}

func (c *countingCatalog) GetWarehouse(ctx context.Context, id int64) (*entity.Warehouse, error) {
	c.warehouseHits++
	return c.Catalog.GetWarehouse(ctx, id)
}

func setup(t *testing.T) (*cache.CatalogCache, *countingCatalog, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := cache.Connect(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	origin := &countingCatalog{Catalog: memory.NewCatalog()}
	origin.PutWarehouse(entity.Warehouse{ID: 1790000000000000001, Name: "Cocina", Active: true})
	origin.PutWarehouse(entity.Warehouse{ID: 1790000000000000002, Name: "Bodega cerrada", Active: false})
	origin.PutUnit(entity.UnitOfMeasure{ID: 3, Name: "KG", Active: false})
	return cache.NewCatalogCache(origin, client, time.Minute, logger.Nop()), origin, mr
}

func TestCatalogCache_InactivoSeLeeDesdeRedis(t *testing.T) {
	c, origin, mr := setup(t)
	ctx := context.Background()

	w, err := c.GetWarehouse(ctx, 1790000000000000002)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.True(t, mr.Exists("catalog:warehouse:1790000000000000002"))

	w, err = c.GetWarehouse(ctx, 1790000000000000002)
	require.NoError(t, err)
	assert.Equal(t, int64(1790000000000000002), w.ID, "el ID sobrevive al JSON sin perder precisión")
	assert.Equal(t, "Bodega cerrada", w.Name)
	assert.False(t, w.Active)
	assert.Equal(t, 1, origin.warehouseHits)

	mr.FastForward(2 * time.Minute)
	_, err = c.GetWarehouse(ctx, 1790000000000000002)
	require.NoError(t, err)
	assert.Equal(t, 2, origin.warehouseHits, "expirado el TTL se vuelve al origen")
}

func TestCatalogCache_ActivoSiempreDesdeElOrigen(t *testing.T) {
	c, origin, mr := setup(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		w, err := c.GetWarehouse(ctx, 1790000000000000001)
		require.NoError(t, err)
		assert.True(t, w.Active)
	}
	assert.Equal(t, 2, origin.warehouseHits)
	assert.False(t, mr.Exists("catalog:warehouse:1790000000000000001"))
}

// Una entrada "activa" que quedó en Redis no sirve para aceptar una referencia ya desactivada.
func TestCatalogCache_DesactivadoSeRechazaConEntradaVieja(t *testing.T) {
	c, origin, mr := setup(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("catalog:warehouse:1790000000000000001",
		`{"id":"1790000000000000001","name":"Cocina","active":true}`))
	origin.PutWarehouse(entity.Warehouse{ID: 1790000000000000001, Name: "Cocina", Active: false})

	_, err := catalog.NewGuard(c).Warehouse(ctx, 1790000000000000001)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, 1, origin.warehouseHits)

	raw, err := mr.Get("catalog:warehouse:1790000000000000001")
	require.NoError(t, err)
	assert.Contains(t, raw, `"active":false`, "la entrada queda corregida")
}

func TestCatalogCache_InexistenteNoSeCachea(t *testing.T) {
	c, origin, mr := setup(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		w, err := c.GetWarehouse(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, w)
	}
	assert.Equal(t, 2, origin.warehouseHits)
	assert.False(t, mr.Exists("catalog:warehouse:404"))
}

func TestCatalogCache_InactivoSeConservaEInvalidate(t *testing.T) {
	c, origin, _ := setup(t)
	ctx := context.Background()

	u, err := c.GetUnit(ctx, 3)
	require.NoError(t, err)
	assert.False(t, u.Active)

	origin.PutUnit(entity.UnitOfMeasure{ID: 3, Name: "KG", Active: true})
	u, err = c.GetUnit(ctx, 3)
	require.NoError(t, err)
	assert.False(t, u.Active, "sigue la copia cacheada")

	require.NoError(t, c.Invalidate(ctx, cache.KindUnit, 3))
	u, err = c.GetUnit(ctx, 3)
	require.NoError(t, err)
	assert.True(t, u.Active)

	assert.Error(t, c.Invalidate(ctx, "bodega", 3), "tipo desconocido")
}

func TestCatalogCache_RedisCaidoConsultaOrigen(t *testing.T) {
	c, origin, mr := setup(t)
	mr.Close()

	w, err := c.GetWarehouse(context.Background(), 1790000000000000001)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, 1, origin.warehouseHits)
}

func TestCatalogCache_EntradaCorruptaSeRecarga(t *testing.T) {
	c, origin, mr := setup(t)
	require.NoError(t, mr.Set("catalog:warehouse:1790000000000000001", "{no-json"))

	w, err := c.GetWarehouse(context.Background(), 1790000000000000001)
	require.NoError(t, err)
	assert.Equal(t, "Cocina", w.Name)
	assert.Equal(t, 1, origin.warehouseHits)
	assert.False(t, mr.Exists("catalog:warehouse:1790000000000000001"), "la entrada corrupta se borra")
}
