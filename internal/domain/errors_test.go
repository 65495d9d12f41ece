package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/costeo-api/internal/domain"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.Kind
	}{
		{"validación", domain.Validation("campo %s", "x"), domain.KindValidation},
		{"no encontrado envuelto", fmt.Errorf("capa: %w", domain.NotFound("factura %d", 1)), domain.KindNotFound},
		{"stock", domain.InsufficientStock("faltan %d", 2), domain.KindInsufficientStock},
		{"sentinel directo", fmt.Errorf("x: %w", domain.ErrInvalidInput), domain.KindValidation},
		{"infraestructura", errors.New("conexión rechazada"), ""},
		{"nil", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.KindOf(tc.err))
		})
	}
}

func TestError_UnwrapASentinel(t *testing.T) {
	err := domain.InsufficientStock("disponible %s", "3")
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "disponible 3", err.Error())
}
