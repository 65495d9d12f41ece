package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, int64(1), cfg.App.IDNode)
	assert.Equal(t, 50, cfg.Ledger.DefaultPageSize)
	assert.Equal(t, 200, cfg.Ledger.MaxPageSize)
	assert.Equal(t, 30*time.Second, cfg.Redis.CatalogTTL)
	assert.False(t, cfg.Redis.Enabled(), "sin REDIS_ADDR la caché queda deshabilitada")
	assert.False(t, cfg.NATS.Enabled(), "sin NATS_URL no se publican eventos")
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, int32(2), cfg.DB.MinConns)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_PORT", "6543")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("LEDGER_MAX_PAGE_SIZE", "500")
	v.Set("DB_AUTO_MIGRATE", true)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 500, cfg.Ledger.MaxPageSize)
}

func TestFromViper_RangosInvalidos(t *testing.T) {
	v := viper.New()
	v.Set("ID_NODE", "4096")
	_, err := fromViper(v)
	assert.Error(t, err, "el nodo snowflake solo admite 10 bits")

	v = viper.New()
	v.Set("LEDGER_DEFAULT_PAGE_SIZE", "300")
	v.Set("LEDGER_MAX_PAGE_SIZE", "100")
	_, err = fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("DB_MIN_CONNS", "30")
	_, err = fromViper(v)
	assert.Error(t, err, "el mínimo del pool no puede superar el máximo (25 por defecto)")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "costeo", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/costeo?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
