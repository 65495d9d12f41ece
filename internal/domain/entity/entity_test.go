package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

func TestInvoiceStatus_Transiciones(t *testing.T) {
	draft, confirmed, canceled := entity.InvoiceStatusDraft, entity.InvoiceStatusConfirmed, entity.InvoiceStatusCanceled

	assert.True(t, draft.CanTransitionTo(confirmed))
	assert.False(t, draft.CanTransitionTo(canceled), "un borrador no se anula, se edita")
	assert.False(t, draft.CanTransitionTo(draft))

	assert.True(t, confirmed.CanTransitionTo(canceled))
	assert.False(t, confirmed.CanTransitionTo(confirmed))
	assert.False(t, confirmed.CanTransitionTo(draft))

	for _, next := range []entity.InvoiceStatus{draft, confirmed, canceled} {
		assert.False(t, canceled.CanTransitionTo(next), "CANCELED es terminal")
	}

	assert.True(t, draft.Editable())
	assert.False(t, confirmed.Editable())
	assert.False(t, canceled.Editable())
}

func TestParseInvoiceStatus(t *testing.T) {
	s, ok := entity.ParseInvoiceStatus("CONFIRMED")
	assert.True(t, ok)
	assert.Equal(t, entity.InvoiceStatusConfirmed, s)

	_, ok = entity.ParseInvoiceStatus("confirmed")
	assert.False(t, ok, "la frontera normaliza a mayúsculas antes de parsear")
}

func TestInvoice_Referencias(t *testing.T) {
	inv := &entity.Invoice{ID: 1234}
	assert.Equal(t, "INVOICE:1234", inv.StockReference())
	assert.Equal(t, "CANCEL_INVOICE:1234", inv.CancelReference())
}

func TestInvoiceItem_Subtotal(t *testing.T) {
	it := entity.InvoiceItem{Quantity: decimal.RequireFromString("2.5"), UnitPrice: decimal.RequireFromString("4.20")}
	assert.True(t, it.Subtotal().Equal(decimal.RequireFromString("10.5")))
}

func TestMovementType_ResolveDirection(t *testing.T) {
	d, ok := entity.MovementTypeIn.ResolveDirection("")
	assert.True(t, ok)
	assert.Equal(t, entity.DirectionIn, d)

	_, ok = entity.MovementTypeOut.ResolveDirection(entity.DirectionIn)
	assert.False(t, ok)

	_, ok = entity.MovementTypeAdjust.ResolveDirection("")
	assert.False(t, ok, "ADJUST exige sentido explícito")

	d, ok = entity.MovementTypeAdjust.ResolveDirection(entity.DirectionOut)
	assert.True(t, ok)
	assert.Equal(t, entity.DirectionOut, d)
}

func TestStockMovement_Signed(t *testing.T) {
	in := entity.StockMovement{Direction: entity.DirectionIn, Quantity: decimal.NewFromInt(3)}
	out := entity.StockMovement{Direction: entity.DirectionOut, Quantity: decimal.NewFromInt(3)}
	assert.True(t, in.Signed().Equal(decimal.NewFromInt(3)))
	assert.True(t, out.Signed().Equal(decimal.NewFromInt(-3)))
}
