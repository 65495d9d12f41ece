package dto_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain"
)

func TestParseID(t *testing.T) {
	id, err := dto.ParseID("warehouse_id", " 1790000000000000001 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1790000000000000001), id, "IDs snowflake sin pérdida de precisión")

	for _, raw := range []string{"", "0", "-4", "1.5", "abc", "99999999999999999999"} {
		_, err := dto.ParseID("warehouse_id", raw)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), "entrada %q", raw)
	}
}

func TestParseOptionalID(t *testing.T) {
	id, err := dto.ParseOptionalID("product_id", "  ")
	require.NoError(t, err)
	assert.Zero(t, id)

	_, err = dto.ParseOptionalID("product_id", "x")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := dto.ParseDate("date", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = dto.ParseDate("date", "2023-02-29")
	assert.Error(t, err)
	_, err = dto.ParseDate("date", "")
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	from, to, err := dto.ParseRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *from)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), *to, "el día final es inclusivo")

	from, to, err = dto.ParseRange("2024-01-01T10:00:00Z", "")
	require.NoError(t, err)
	assert.Equal(t, 10, from.Hour())
	assert.Nil(t, to)

	_, _, err = dto.ParseRange("2024-02-01", "2024-01-01")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, _, err = dto.ParseRange("ayer", "")
	assert.Error(t, err)
}

func TestPageRequest_Clamp(t *testing.T) {
	limit, offset := dto.PageRequest{}.Clamp(20, 100)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = dto.PageRequest{Limit: 1000, Offset: -5}.Clamp(20, 100)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 0, offset)

	limit, _ = dto.PageRequest{Limit: 7}.Clamp(20, 100)
	assert.Equal(t, 7, limit)
}

func TestCheckQuantityYPrecio(t *testing.T) {
	ok := []string{"1", "0.0001", "12.3400", "5.000000"}
	for _, raw := range ok {
		assert.NoError(t, dto.CheckQuantity("quantity", decimal.RequireFromString(raw)), raw)
	}
	bad := []string{"0", "-1", "0.00001", "1.23456"}
	for _, raw := range bad {
		err := dto.CheckQuantity("quantity", decimal.RequireFromString(raw))
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), raw)
	}

	assert.NoError(t, dto.CheckPrice("unit_price", decimal.Zero, false))
	assert.Error(t, dto.CheckPrice("unit_price", decimal.Zero, true))
	assert.Error(t, dto.CheckPrice("unit_price", decimal.NewFromInt(-1), false))
	err := dto.CheckPrice("unit_price", decimal.RequireFromString("1990.12345"), false)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Contains(t, err.Error(), "unit_price")
}
