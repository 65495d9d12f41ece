package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
type AdjustStockRequest struct {
	WarehouseID string          `json:"warehouse_id"`
	ProductID   string          `json:"product_id"`
	UnitID      string          `json:"unit_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Direction   string          `json:"direction"` // IN | OUT
	Reference   string          `json:"reference,omitempty"`
}

// TransferStockRequest body para POST /api/inventory/transfers.
type TransferStockRequest struct {
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	ProductID       string          `json:"product_id"`
	UnitID          string          `json:"unit_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reference       string          `json:"reference,omitempty"`
}

// BalanceQuery filtros de GET /api/inventory/balances.
type BalanceQuery struct {
	WarehouseID string
	ProductID   string
	UnitID      string
	Page        PageRequest
}

// MovementQuery filtros de GET /api/inventory/movements.
type MovementQuery struct {
	WarehouseID string
	ProductID   string
	UnitID      string
	InvoiceID   string
	From        string
	To          string
	Page        PageRequest
}

// BalanceResponse saldo actual de un producto/unidad en una bodega.
type BalanceResponse struct {
	WarehouseID int64           `json:"warehouse_id,string"`
	ProductID   int64           `json:"product_id,string"`
	UnitID      int64           `json:"unit_id,string"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MovementResponse entrada del kardex.
type MovementResponse struct {
	ID            int64           `json:"id,string"`
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"type"`
	Direction     string          `json:"direction"`
	WarehouseID   int64           `json:"warehouse_id,string"`
	ProductID     int64           `json:"product_id,string"`
	UnitID        int64           `json:"unit_id,string"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reference     string          `json:"reference"`
	InvoiceID     *int64          `json:"invoice_id,string,omitempty"`
	CreatedBy     int64           `json:"created_by,string"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AdjustmentResponse resultado de un ajuste: saldo final y movimiento registrado.
type AdjustmentResponse struct {
	TransactionID string           `json:"transaction_id"`
	Balance       BalanceResponse  `json:"balance"`
	Movement      MovementResponse `json:"movement"`
}

// TransferResponse resultado de un traslado entre bodegas.
type TransferResponse struct {
	TransactionID string             `json:"transaction_id"`
	Reference     string             `json:"reference"`
	Source        BalanceResponse    `json:"source"`
	Destination   BalanceResponse    `json:"destination"`
	Movements     []MovementResponse `json:"movements"`
}

// BalanceListResponse lista paginada de saldos.
type BalanceListResponse struct {
	Items []BalanceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// MovementListResponse lista paginada del kardex.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
