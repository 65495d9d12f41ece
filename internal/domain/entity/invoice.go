package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de una factura de compra.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"     // editable, sin efecto en inventario
	InvoiceStatusConfirmed InvoiceStatus = "CONFIRMED" // ítems bloqueados, stock ingresado
	InvoiceStatusCanceled  InvoiceStatus = "CANCELED"  // terminal, stock revertido
)

// ParseInvoiceStatus valida un estado recibido desde la frontera.
func ParseInvoiceStatus(s string) (InvoiceStatus, bool) {
	switch InvoiceStatus(s) {
	case InvoiceStatusDraft, InvoiceStatusConfirmed, InvoiceStatusCanceled:
		return InvoiceStatus(s), true
	}
	return "", false
}

// CanTransitionTo indica si la transición es válida: DRAFT → CONFIRMED → CANCELED.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return next == InvoiceStatusConfirmed
	case InvoiceStatusConfirmed:
		return next == InvoiceStatusCanceled
	case InvoiceStatusCanceled:
		return false
	}
	return false
}

// Editable indica si los ítems y la cabecera pueden modificarse.
func (s InvoiceStatus) Editable() bool {
	return s == InvoiceStatusDraft
}

// Invoice representa la cabecera de una factura de compra a proveedor.
type Invoice struct {
	ID           int64
	ProviderID   int64
	WarehouseID  int64 // bodega que recibe la mercancía
	Number       string
	Date         time.Time
	Observation  string
	Status       InvoiceStatus
	CreatedBy    int64
	ConfirmedBy  *int64
	ConfirmedAt  *time.Time
	CanceledBy   *int64
	CanceledAt   *time.Time
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockReference referencia de los movimientos de entrada al confirmar.
func (i *Invoice) StockReference() string {
	return fmt.Sprintf("INVOICE:%d", i.ID)
}

// CancelReference referencia de los movimientos de salida al anular.
func (i *Invoice) CancelReference() string {
	return fmt.Sprintf("CANCEL_INVOICE:%d", i.ID)
}

// InvoiceItem representa una línea de la factura.
type InvoiceItem struct {
	ID          int64
	InvoiceID   int64
	ProductID   int64
	UnitID      int64
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Observation string
	CreatedAt   time.Time
}

// Subtotal cantidad por precio unitario.
func (it InvoiceItem) Subtotal() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}
