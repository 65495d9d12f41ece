package inventory

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún efecto de la unidad de trabajo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
	) error) error
}

// PageLimits tamaño de página por defecto y máximo para los listados del kardex.
type PageLimits struct {
	Default int
	Max     int
}
