package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
	"github.com/jhoicas/costeo-api/internal/infrastructure/memory"
)

var key = entity.BalanceKey{WarehouseID: 1, ProductID: 2, UnitID: 3}

func TestStore_RollbackDescartaTodo(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	now := time.Now().UTC()

	boom := errors.New("boom")
	err := s.RunPurchasing(ctx, func(inv repository.InvoiceRepository, mov repository.StockMovementRepository, bal repository.StockBalanceRepository) error {
		require.NoError(t, inv.Create(ctx, &entity.Invoice{ID: 1, ProviderID: 9, Number: "A", Status: entity.InvoiceStatusDraft}))
		require.NoError(t, inv.AddItem(ctx, &entity.InvoiceItem{ID: 2, InvoiceID: 1, Quantity: decimal.NewFromInt(1)}))
		_, err := bal.Increase(ctx, key, decimal.NewFromInt(5), now)
		require.NoError(t, err)
		require.NoError(t, mov.Append(ctx, &entity.StockMovement{ID: 3, BalanceKey: key, Quantity: decimal.NewFromInt(5)}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Invoices().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
	items, err := s.Invoices().ListItems(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
	b, err := s.Balances().Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, b)
	movs, err := s.Movements().List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestStore_CommitPublicaCambios(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	err := s.Run(ctx, func(mov repository.StockMovementRepository, bal repository.StockBalanceRepository) error {
		_, err := bal.Increase(ctx, key, decimal.NewFromInt(5), time.Now())
		return err
	})
	require.NoError(t, err)

	b, err := s.Balances().Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, b.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestStore_ContextoCanceladoNoEjecuta(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, func(repository.StockMovementRepository, repository.StockBalanceRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestBalance_DecrementoCondicional(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	_, err := s.Balances().Increase(ctx, key, decimal.RequireFromString("1.5"), time.Now())
	require.NoError(t, err)

	_, err = s.Balances().Decrease(ctx, key, decimal.NewFromInt(2), time.Now())
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err))

	b, err := s.Balances().Decrease(ctx, key, decimal.RequireFromString("1.5"), time.Now())
	require.NoError(t, err)
	assert.True(t, b.Quantity.IsZero())

	_, err = s.Balances().Decrease(ctx, entity.BalanceKey{WarehouseID: 9, ProductID: 9, UnitID: 9}, decimal.NewFromInt(1), time.Now())
	assert.Equal(t, domain.KindInsufficientStock, domain.KindOf(err), "saldo inexistente cuenta como cero")
}

// Salidas concurrentes sobre el mismo saldo: nunca queda negativo.
func TestStore_SalidasConcurrentes(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	_, err := s.Balances().Increase(ctx, key, decimal.NewFromInt(10), time.Now())
	require.NoError(t, err)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Run(ctx, func(_ repository.StockMovementRepository, bal repository.StockBalanceRepository) error {
				_, err := bal.Decrease(ctx, key, decimal.NewFromInt(1), time.Now())
				return err
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	b, err := s.Balances().Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, b.Quantity.IsZero())
}

func TestInvoices_NumeroUnicoPorProveedor(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Invoices().Create(ctx, &entity.Invoice{ID: 1, ProviderID: 9, Number: "A"}))
	require.NoError(t, s.Invoices().Create(ctx, &entity.Invoice{ID: 2, ProviderID: 8, Number: "A"}), "otro proveedor puede repetir número")

	err := s.Invoices().Create(ctx, &entity.Invoice{ID: 3, ProviderID: 9, Number: "A"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	exists, err := s.Invoices().NumberExists(ctx, 9, "A", 1)
	require.NoError(t, err)
	assert.False(t, exists, "la propia factura no cuenta")

	deleted, err := s.Invoices().DeleteItem(ctx, 1, 77)
	require.NoError(t, err)
	assert.False(t, deleted)
}
