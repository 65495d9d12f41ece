package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del kardex.
type MovementType string

const (
	MovementTypeIn     MovementType = "IN"     // entrada (factura confirmada, traslado destino)
	MovementTypeOut    MovementType = "OUT"    // salida (anulación, traslado origen)
	MovementTypeAdjust MovementType = "ADJUST" // ajuste manual
)

// Direction sentido del cambio de saldo.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// ParseDirection valida el sentido recibido desde la frontera.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionIn:
		return DirectionIn, true
	case DirectionOut:
		return DirectionOut, true
	}
	return "", false
}

// QuantityScale decimales que se persisten para cantidades y precios (NUMERIC(18,4)).
const QuantityScale = 4

// FitsScale indica si d se guarda sin redondeo. Ceros a la derecha no cuentan: 1.50000 cabe.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(QuantityScale))
}

// ResolveDirection devuelve el sentido efectivo de un movimiento.
// IN y OUT fijan su propio sentido; ADJUST exige un sentido explícito.
func (t MovementType) ResolveDirection(d Direction) (Direction, bool) {
	switch t {
	case MovementTypeIn:
		return DirectionIn, d == "" || d == DirectionIn
	case MovementTypeOut:
		return DirectionOut, d == "" || d == DirectionOut
	case MovementTypeAdjust:
		switch d {
		case DirectionIn, DirectionOut:
			return d, true
		}
	}
	return "", false
}

// StockMovement representa una entrada inmutable del kardex. Quantity siempre es positiva;
// el signo lo da Direction.
type StockMovement struct {
	ID            int64
	TransactionID string // agrupa los movimientos de una misma unidad de trabajo
	Type          MovementType
	Direction     Direction
	BalanceKey
	Quantity  decimal.Decimal
	Reference string
	InvoiceID *int64
	CreatedBy int64
	CreatedAt time.Time
}

// Signed devuelve la cantidad con signo aplicada al saldo.
func (m StockMovement) Signed() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
