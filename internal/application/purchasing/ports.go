package purchasing

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

// TxRunner ejecuta una función en una transacción con los repositorios de facturas y kardex
// atados a ella. Confirmar y anular escriben cabecera, saldos y movimientos en la misma unidad de trabajo.
type TxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
	) error) error
}

// Límites del listado de facturas.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)
