package inventory_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-api/internal/application/catalog"
	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/application/inventory"
	"github.com/jhoicas/costeo-api/internal/application/ports"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
	"github.com/jhoicas/costeo-api/internal/infrastructure/memory"
	"github.com/jhoicas/costeo-api/pkg/idgen"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const actor = int64(3)

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, ports.Event) error {
	p.calls++
	return errors.New("broker caído")
}

func newStock(t *testing.T, pub ports.EventPublisher) (*inventory.StockUseCase, *memory.Store, *memory.Catalog) {
	t.Helper()
	ids, err := idgen.New(2)
	require.NoError(t, err)

	store := memory.NewStore()
	cat := memory.NewCatalog()
	cat.PutWarehouse(entity.Warehouse{ID: 1, Name: "Cocina", Active: true})
	cat.PutWarehouse(entity.Warehouse{ID: 2, Name: "Bar", Active: true})
	cat.PutWarehouse(entity.Warehouse{ID: 3, Name: "Cerrada", Active: false})
	cat.PutProduct(entity.Product{ID: 20, Name: "Tomate", Active: true})
	cat.PutProduct(entity.Product{ID: 21, Name: "Fuera de carta", Active: false})
	cat.PutUnit(entity.UnitOfMeasure{ID: 200, Name: "KG", Active: true})
	cat.PutUnit(entity.UnitOfMeasure{ID: 201, Name: "UND", Active: true})

	if pub == nil {
		pub = ports.NoopPublisher{}
	}
	uc := inventory.NewStockUseCase(store, inventory.NewLedger(ids), catalog.NewGuard(cat),
		store.Balances(), store.Movements(), pub, logger.Nop(), inventory.PageLimits{Default: 2, Max: 3})
	return uc, store, cat
}

func adjust(dir string, qty int64) dto.AdjustStockRequest {
	return dto.AdjustStockRequest{
		WarehouseID: "1", ProductID: "20", UnitID: "200",
		Quantity: decimal.NewFromInt(qty), Direction: dir,
	}
}

func qty(t *testing.T, store *memory.Store, w, p, u int64) decimal.Decimal {
	t.Helper()
	b, err := store.Balances().Get(context.Background(), entity.BalanceKey{WarehouseID: w, ProductID: p, UnitID: u})
	require.NoError(t, err)
	if b == nil {
		return decimal.Zero
	}
	return b.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_EntradaCreaSaldoYMovimiento(t *testing.T) {
	uc, store, _ := newStock(t, nil)

	out, err := uc.Adjust(context.Background(), actor, adjust("in", 12))
	require.NoError(t, err)
	assert.NotEmpty(t, out.TransactionID)
	assert.True(t, out.Balance.Quantity.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, "ADJUST", out.Movement.Type)
	assert.Equal(t, "IN", out.Movement.Direction)
	assert.Equal(t, "ADJUST", out.Movement.Reference, "referencia por defecto")
	assert.Equal(t, out.TransactionID, out.Movement.TransactionID)
	assert.Equal(t, actor, out.Movement.CreatedBy)

	assert.True(t, qty(t, store, 1, 20, 200).Equal(decimal.NewFromInt(12)))
}

// Un OUT mayor al saldo se rechaza y no deja rastro.
func TestAdjust_SalidaSinStockSuficiente(t *testing.T) {
	uc, store, _ := newStock(t, nil)
	_, err := uc.Adjust(context.Background(), actor, adjust("IN", 5))
	require.NoError(t, err)

	_, err = uc.Adjust(context.Background(), actor, adjust("OUT", 8))
	require.Error(t, err)
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))

	assert.True(t, qty(t, store, 1, 20, 200).Equal(decimal.NewFromInt(5)))
	movs, err := store.Movements().List(context.Background(), repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movs, 1)

	out, err := uc.Adjust(context.Background(), actor, adjust("OUT", 5))
	require.NoError(t, err, "se puede dejar el saldo exactamente en cero")
	assert.True(t, out.Balance.Quantity.IsZero())
}

func TestAdjust_Validaciones(t *testing.T) {
	uc, _, _ := newStock(t, nil)
	cases := map[string]dto.AdjustStockRequest{
		"cantidad cero":      adjust("IN", 0),
		"cantidad negativa":  adjust("IN", -2),
		"sentido inválido":   adjust("SIDEWAYS", 1),
		"sin sentido":        adjust("", 1),
		"bodega inactiva":    {WarehouseID: "3", ProductID: "20", UnitID: "200", Quantity: decimal.NewFromInt(1), Direction: "IN"},
		"producto inactivo":  {WarehouseID: "1", ProductID: "21", UnitID: "200", Quantity: decimal.NewFromInt(1), Direction: "IN"},
		"unidad inexistente": {WarehouseID: "1", ProductID: "20", UnitID: "999", Quantity: decimal.NewFromInt(1), Direction: "IN"},
		"id malformado":      {WarehouseID: "uno", ProductID: "20", UnitID: "200", Quantity: decimal.NewFromInt(1), Direction: "IN"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Adjust(context.Background(), actor, req)
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

// Más decimales de los que guarda la base se rechazan antes de tocar saldos: nada se redondea en silencio.
func TestAdjust_CantidadConMasDecimalesQueLaEscala(t *testing.T) {
	uc, store, _ := newStock(t, nil)
	ctx := context.Background()

	for _, raw := range []string{"0.00001", "0.00006", "2.12345"} {
		req := adjust("IN", 1)
		req.Quantity = decimal.RequireFromString(raw)
		_, err := uc.Adjust(ctx, actor, req)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), raw)
	}
	movs, err := store.Movements().List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)

	req := adjust("IN", 1)
	req.Quantity = decimal.RequireFromString("0.12340")
	out, err := uc.Adjust(ctx, actor, req)
	require.NoError(t, err, "ceros a la derecha no cuentan")
	assert.True(t, out.Balance.Quantity.Equal(decimal.RequireFromString("0.1234")))

	_, err = uc.Transfer(ctx, actor, dto.TransferStockRequest{
		FromWarehouseID: "1", ToWarehouseID: "2", ProductID: "20", UnitID: "200", Quantity: decimal.RequireFromString("0.00005"),
	})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err), "traslado")
}

func TestAdjust_FalloDelPublicadorNoAfectaElResultado(t *testing.T) {
	pub := &failingPublisher{}
	uc, store, _ := newStock(t, pub)

	_, err := uc.Adjust(context.Background(), actor, adjust("IN", 1))
	require.NoError(t, err)
	assert.Equal(t, 1, pub.calls)
	assert.True(t, qty(t, store, 1, 20, 200).Equal(decimal.NewFromInt(1)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_DosMovimientosMismaTransaccion(t *testing.T) {
	uc, store, _ := newStock(t, nil)
	_, err := uc.Adjust(context.Background(), actor, adjust("IN", 10))
	require.NoError(t, err)

	out, err := uc.Transfer(context.Background(), actor, dto.TransferStockRequest{
		FromWarehouseID: "1", ToWarehouseID: "2", ProductID: "20", UnitID: "200", Quantity: decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.Reference, "TRANSFER:"))
	assert.True(t, out.Source.Quantity.Equal(decimal.NewFromInt(6)))
	assert.True(t, out.Destination.Quantity.Equal(decimal.NewFromInt(4)))

	require.Len(t, out.Movements, 2)
	assert.Equal(t, "OUT", out.Movements[0].Direction)
	assert.Equal(t, int64(1), out.Movements[0].WarehouseID)
	assert.Equal(t, out.Reference+":OUT", out.Movements[0].Reference)
	assert.Equal(t, "IN", out.Movements[1].Direction)
	assert.Equal(t, int64(2), out.Movements[1].WarehouseID)
	assert.Equal(t, out.Reference+":IN", out.Movements[1].Reference)
	assert.Equal(t, out.TransactionID, out.Movements[0].TransactionID)
	assert.Equal(t, out.TransactionID, out.Movements[1].TransactionID)

	assert.True(t, qty(t, store, 2, 20, 200).Equal(decimal.NewFromInt(4)))
}

func TestTransfer_StockInsuficienteNoMueveNada(t *testing.T) {
	uc, store, _ := newStock(t, nil)
	_, err := uc.Adjust(context.Background(), actor, adjust("IN", 3))
	require.NoError(t, err)

	_, err = uc.Transfer(context.Background(), actor, dto.TransferStockRequest{
		FromWarehouseID: "1", ToWarehouseID: "2", ProductID: "20", UnitID: "200", Quantity: decimal.NewFromInt(5),
	})
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))
	assert.True(t, qty(t, store, 1, 20, 200).Equal(decimal.NewFromInt(3)))

	dst, err := store.Balances().Get(context.Background(), entity.BalanceKey{WarehouseID: 2, ProductID: 20, UnitID: 200})
	require.NoError(t, err)
	assert.Nil(t, dst, "el destino no llega a crearse")
}

func TestTransfer_Validaciones(t *testing.T) {
	uc, _, _ := newStock(t, nil)
	_, err := uc.Adjust(context.Background(), actor, adjust("IN", 3))
	require.NoError(t, err)

	base := dto.TransferStockRequest{FromWarehouseID: "1", ToWarehouseID: "2", ProductID: "20", UnitID: "200", Quantity: decimal.NewFromInt(1)}

	same := base
	same.ToWarehouseID = "1"
	_, err = uc.Transfer(context.Background(), actor, same)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err), "misma bodega")

	closed := base
	closed.ToWarehouseID = "3"
	_, err = uc.Transfer(context.Background(), actor, closed)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err), "destino inactivo")

	zero := base
	zero.Quantity = decimal.Zero
	_, err = uc.Transfer(context.Background(), actor, zero)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = uc.Transfer(context.Background(), 0, base)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err), "sin actor")
}

func TestTransfer_ReferenciaExplicita(t *testing.T) {
	uc, _, _ := newStock(t, nil)
	_, err := uc.Adjust(context.Background(), actor, adjust("IN", 3))
	require.NoError(t, err)

	out, err := uc.Transfer(context.Background(), actor, dto.TransferStockRequest{
		FromWarehouseID: "1", ToWarehouseID: "2", ProductID: "20", UnitID: "200",
		Quantity: decimal.NewFromInt(1), Reference: "PEDIDO-BAR-12",
	})
	require.NoError(t, err)
	assert.Equal(t, "PEDIDO-BAR-12", out.Reference)
	assert.Equal(t, "PEDIDO-BAR-12:OUT", out.Movements[0].Reference)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestBalances_UnidadesSonSaldosDistintos(t *testing.T) {
	uc, _, _ := newStock(t, nil)
	ctx := context.Background()
	_, err := uc.Adjust(ctx, actor, adjust("IN", 3))
	require.NoError(t, err)
	und := adjust("IN", 40)
	und.UnitID = "201"
	_, err = uc.Adjust(ctx, actor, und)
	require.NoError(t, err)

	out, err := uc.Balances(ctx, dto.BalanceQuery{ProductID: "20"})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)

	out, err = uc.Balances(ctx, dto.BalanceQuery{UnitID: "201"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Quantity.Equal(decimal.NewFromInt(40)))

	_, err = uc.Balances(ctx, dto.BalanceQuery{WarehouseID: "-1"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestMovements_PaginacionYOrden(t *testing.T) {
	uc, _, _ := newStock(t, nil)
	ctx := context.Background()
	for i := int64(1); i <= 4; i++ {
		_, err := uc.Adjust(ctx, actor, adjust("IN", i))
		require.NoError(t, err)
	}

	page, err := uc.Movements(ctx, dto.MovementQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Limit, "límite por defecto")
	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].Quantity.Equal(decimal.NewFromInt(4)), "más reciente primero")

	page, err = uc.Movements(ctx, dto.MovementQuery{Page: dto.PageRequest{Limit: 50, Offset: 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page.Limit, "recortado al máximo")
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].Quantity.Equal(decimal.NewFromInt(1)))

	page, err = uc.Movements(ctx, dto.MovementQuery{Page: dto.PageRequest{Offset: 10}})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = uc.Movements(ctx, dto.MovementQuery{From: "2024-02-01", To: "2024-01-01"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestMovements_FiltroPorRango(t *testing.T) {
	uc, _, _ := newStock(t, nil)
	ctx := context.Background()
	_, err := uc.Adjust(ctx, actor, adjust("IN", 1))
	require.NoError(t, err)

	page, err := uc.Movements(ctx, dto.MovementQuery{From: "2000-01-01", To: "2000-12-31"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = uc.Movements(ctx, dto.MovementQuery{From: "2000-01-01"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}
