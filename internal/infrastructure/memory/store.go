// Package memory implementa los puertos de persistencia en memoria, con la misma semántica
// transaccional que PostgreSQL: una unidad de trabajo se aplica completa o no deja rastro.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/costeo-api/internal/application/inventory"
	"github.com/jhoicas/costeo-api/internal/application/purchasing"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner  = (*Store)(nil)
	_ purchasing.TxRunner = (*Store)(nil)
)

type state struct {
	balances  map[entity.BalanceKey]entity.StockBalance
	movements []entity.StockMovement
	invoices  map[int64]entity.Invoice
	items     map[int64][]entity.InvoiceItem // por invoice_id, en orden de alta
}

func newState() *state {
	return &state{
		balances: make(map[entity.BalanceKey]entity.StockBalance),
		invoices: make(map[int64]entity.Invoice),
		items:    make(map[int64][]entity.InvoiceItem),
	}
}

// clone copia profunda; los movimientos son inmutables así que basta copiar el slice.
func (s *state) clone() *state {
	c := &state{
		balances:  make(map[entity.BalanceKey]entity.StockBalance, len(s.balances)),
		movements: append([]entity.StockMovement(nil), s.movements...),
		invoices:  make(map[int64]entity.Invoice, len(s.invoices)),
		items:     make(map[int64][]entity.InvoiceItem, len(s.items)),
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.InvoiceItem(nil), v...)
	}
	return c
}

// Store guarda saldos, kardex y facturas. Las transacciones se serializan con un mutex global
// (equivalente a aislamiento SERIALIZABLE) y trabajan sobre una copia que solo se publica al confirmar.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Balances repositorio de saldos fuera de transacción.
func (s *Store) Balances() repository.StockBalanceRepository { return &balanceRepo{db: s} }

// Movements repositorio del kardex fuera de transacción.
func (s *Store) Movements() repository.StockMovementRepository { return &movementRepo{db: s} }

// Invoices repositorio de facturas fuera de transacción.
func (s *Store) Invoices() repository.InvoiceRepository { return &invoiceRepo{db: s} }

// Run ejecuta fn con repositorios de saldos y kardex atados a una transacción.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
) error) error {
	return s.inTx(ctx, func(tx *txView) error {
		return fn(&movementRepo{db: tx}, &balanceRepo{db: tx})
	})
}

// RunPurchasing ejecuta fn con repositorios de facturas, kardex y saldos atados a una transacción.
func (s *Store) RunPurchasing(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
) error) error {
	return s.inTx(ctx, func(tx *txView) error {
		return fn(&invoiceRepo{db: tx}, &movementRepo{db: tx}, &balanceRepo{db: tx})
	})
}

func (s *Store) inTx(ctx context.Context, fn func(*txView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txView{st: s.st.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

func (s *Store) view(fn func(*state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// txView da acceso al estado de trabajo de una transacción abierta; el lock ya lo tiene inTx.
type txView struct {
	st *state
}

func (t *txView) view(fn func(*state) error) error { return fn(t.st) }

type db interface {
	view(fn func(*state) error) error
}
