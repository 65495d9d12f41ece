package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices. La factura nace en DRAFT y sin ítems.
type CreateInvoiceRequest struct {
	ProviderID  string `json:"provider_id"`
	WarehouseID string `json:"warehouse_id"` // bodega que recibe la mercancía
	Number      string `json:"number"`
	Date        string `json:"date"` // YYYY-MM-DD
	Observation string `json:"observation,omitempty"`
}

// UpdateInvoiceHeaderRequest body para PUT /api/invoices/:id (solo DRAFT). Campos nil no cambian.
type UpdateInvoiceHeaderRequest struct {
	ProviderID  *string `json:"provider_id"`
	WarehouseID *string `json:"warehouse_id"`
	Number      *string `json:"number"`
	Date        *string `json:"date"`
	Observation *string `json:"observation"`
}

// InvoiceItemRequest línea de factura (producto, unidad, cantidad, precio unitario).
type InvoiceItemRequest struct {
	ProductID   string          `json:"product_id"`
	UnitID      string          `json:"unit_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Observation string          `json:"observation,omitempty"`
}

// ReplaceItemsRequest body para PUT /api/invoices/:id/items.
type ReplaceItemsRequest struct {
	Items []InvoiceItemRequest `json:"items"`
}

// ConfirmInvoiceRequest body para POST /api/invoices/:id/confirm.
type ConfirmInvoiceRequest struct {
	Observation string `json:"observation,omitempty"`
}

// CancelInvoiceRequest body para POST /api/invoices/:id/cancel.
type CancelInvoiceRequest struct {
	Reason string `json:"reason"`
}

// InvoiceQuery filtros de GET /api/invoices.
type InvoiceQuery struct {
	ProviderID  string
	WarehouseID string
	Status      string
	From        string
	To          string
	Page        PageRequest
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
// En listados Items y Total se omiten.
type InvoiceResponse struct {
	ID           int64                 `json:"id,string"`
	ProviderID   int64                 `json:"provider_id,string"`
	WarehouseID  int64                 `json:"warehouse_id,string"`
	Number       string                `json:"number"`
	Date         string                `json:"date"`
	Observation  string                `json:"observation"`
	Status       string                `json:"status"`
	CreatedBy    int64                 `json:"created_by,string"`
	ConfirmedBy  *int64                `json:"confirmed_by,string,omitempty"`
	ConfirmedAt  *time.Time            `json:"confirmed_at,omitempty"`
	CanceledBy   *int64                `json:"canceled_by,string,omitempty"`
	CanceledAt   *time.Time            `json:"canceled_at,omitempty"`
	CancelReason string                `json:"cancel_reason,omitempty"`
	Total        *decimal.Decimal      `json:"total,omitempty"`
	Items        []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// InvoiceItemResponse línea de detalle en la respuesta.
type InvoiceItemResponse struct {
	ID          int64           `json:"id,string"`
	ProductID   int64           `json:"product_id,string"`
	UnitID      int64           `json:"unit_id,string"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Observation string          `json:"observation,omitempty"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
