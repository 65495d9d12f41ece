package repository

import (
	"context"
	"time"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas. Un ID en 0 o estado vacío no filtra.
type InvoiceFilter struct {
	ProviderID  int64
	WarehouseID int64
	Status      entity.InvoiceStatus
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// InvoiceRepository define el puerto de persistencia para facturas de compra y sus ítems.
type InvoiceRepository interface {
	// Create persiste la cabecera. Un número repetido para el proveedor es error de validación.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	// GetForUpdate obtiene la factura y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Invoice, error)
	// NumberExists indica si el proveedor ya tiene una factura con ese número, sin contar excludeID.
	NumberExists(ctx context.Context, providerID int64, number string, excludeID int64) (bool, error)
	// UpdateHeader actualiza proveedor, bodega, número, fecha y observación.
	UpdateHeader(ctx context.Context, invoice *entity.Invoice) error
	// UpdateStatus actualiza estado, observación y los campos de auditoría de confirmación/anulación.
	UpdateStatus(ctx context.Context, invoice *entity.Invoice) error
	// List devuelve la página pedida y el total de facturas que cumplen el filtro.
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, int, error)

	AddItem(ctx context.Context, item *entity.InvoiceItem) error
	// ReplaceItems borra los ítems actuales y guarda los nuevos.
	ReplaceItems(ctx context.Context, invoiceID int64, items []*entity.InvoiceItem) error
	// DeleteItem devuelve false si el ítem no pertenece a la factura.
	DeleteItem(ctx context.Context, invoiceID, itemID int64) (bool, error)
	ListItems(ctx context.Context, invoiceID int64) ([]*entity.InvoiceItem, error)
}
