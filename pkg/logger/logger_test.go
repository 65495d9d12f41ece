package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-api/pkg/logger"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.Level("debug"))
	assert.Equal(t, zerolog.WarnLevel, logger.Level(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, logger.Level(""))
	assert.Equal(t, zerolog.InfoLevel, logger.Level("verbose"))
}

func TestNew_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Named("inventory").Info().Msg("no se escribe")
	assert.Zero(t, buf.Len(), "info queda bajo el nivel warn")

	log.Named("inventory").Warn().Int64("warehouse_id", 1).Msg("saldo bajo")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "inventory", line["component"])
	assert.Equal(t, "saldo bajo", line["message"])
	assert.Contains(t, line, "time")
}
