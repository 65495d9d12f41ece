package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/application/catalog"
	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/application/ports"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

const (
	adjustReference   = "ADJUST"
	transferReference = "TRANSFER:"
)

// StockUseCase expone los ajustes manuales, traslados y consultas del kardex.
type StockUseCase struct {
	txRunner     TxRunner
	ledger       *Ledger
	guard        *catalog.Guard
	balanceRepo  repository.StockBalanceRepository
	movementRepo repository.StockMovementRepository
	publisher    ports.EventPublisher
	log          *logger.Logger
	limits       PageLimits
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	ledger *Ledger,
	guard *catalog.Guard,
	balanceRepo repository.StockBalanceRepository,
	movementRepo repository.StockMovementRepository,
	publisher ports.EventPublisher,
	log *logger.Logger,
	limits PageLimits,
) *StockUseCase {
	return &StockUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		guard:        guard,
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
		publisher:    publisher,
		log:          log,
		limits:       limits,
	}
}

// Adjust registra un ajuste manual (IN suma, OUT resta) en una sola transacción.
// Un OUT mayor al saldo disponible falla con INSUFFICIENT_STOCK sin cambiar nada.
func (uc *StockUseCase) Adjust(ctx context.Context, actorID int64, in dto.AdjustStockRequest) (*dto.AdjustmentResponse, error) {
	if actorID <= 0 {
		return nil, domain.Validation("actor requerido")
	}
	key, err := parseKey(in.WarehouseID, in.ProductID, in.UnitID)
	if err != nil {
		return nil, err
	}
	dir, ok := entity.ParseDirection(strings.ToUpper(strings.TrimSpace(in.Direction)))
	if !ok {
		return nil, domain.Validation("direction debe ser IN u OUT")
	}
	if err := dto.CheckQuantity("quantity", in.Quantity); err != nil {
		return nil, err
	}
	if err := uc.guard.StockTarget(ctx, key); err != nil {
		return nil, err
	}
	if dir == entity.DirectionOut {
		if err := uc.ensureAvailable(ctx, key, in.Quantity); err != nil {
			return nil, err
		}
	}

	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		reference = adjustReference
	}
	now := time.Now().UTC()
	txID := uuid.New().String()

	var (
		bal *entity.StockBalance
		mov *entity.StockMovement
	)
	err = uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, balanceRepo repository.StockBalanceRepository) error {
		var err error
		bal, mov, err = uc.ledger.RecordInTx(ctx, movRepo, balanceRepo, MovementInput{
			TransactionID: txID,
			Type:          entity.MovementTypeAdjust,
			Direction:     dir,
			Key:           key,
			Quantity:      in.Quantity,
			Reference:     reference,
			ActorID:       actorID,
			At:            now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	out := &dto.AdjustmentResponse{
		TransactionID: txID,
		Balance:       ToBalanceResponse(bal),
		Movement:      ToMovementResponse(mov),
	}
	uc.log.Info().Str("transaction_id", txID).Int64("warehouse_id", key.WarehouseID).
		Int64("product_id", key.ProductID).Int64("unit_id", key.UnitID).
		Str("direction", string(dir)).Str("quantity", in.Quantity.String()).
		Msg("ajuste de inventario registrado")
	ports.Notify(ctx, uc.publisher, uc.log, ports.Event{
		Name: ports.EventStockAdjusted, OccurredAt: now, ActorID: actorID, TransactionID: txID, Payload: out,
	})
	return out, nil
}

// Transfer mueve cantidad de una bodega a otra: un OUT en origen y un IN en destino,
// ambos con el mismo transaction_id, o ninguno.
func (uc *StockUseCase) Transfer(ctx context.Context, actorID int64, in dto.TransferStockRequest) (*dto.TransferResponse, error) {
	if actorID <= 0 {
		return nil, domain.Validation("actor requerido")
	}
	src, err := parseKey(in.FromWarehouseID, in.ProductID, in.UnitID)
	if err != nil {
		return nil, err
	}
	toID, err := dto.ParseID("to_warehouse_id", in.ToWarehouseID)
	if err != nil {
		return nil, err
	}
	if src.WarehouseID == toID {
		return nil, domain.Validation("la bodega de origen y destino deben ser distintas")
	}
	if err := dto.CheckQuantity("quantity", in.Quantity); err != nil {
		return nil, err
	}
	dst := src
	dst.WarehouseID = toID

	if err := uc.guard.StockTarget(ctx, src); err != nil {
		return nil, err
	}
	if _, err := uc.guard.Warehouse(ctx, toID); err != nil {
		return nil, err
	}
	if err := uc.ensureAvailable(ctx, src, in.Quantity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txID := uuid.New().String()
	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		reference = transferReference + txID
	}

	var (
		srcBal, dstBal *entity.StockBalance
		outMov, inMov  *entity.StockMovement
	)
	err = uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, balanceRepo repository.StockBalanceRepository) error {
		var err error
		srcBal, outMov, err = uc.ledger.RecordInTx(ctx, movRepo, balanceRepo, MovementInput{
			TransactionID: txID,
			Type:          entity.MovementTypeOut,
			Key:           src,
			Quantity:      in.Quantity,
			Reference:     reference + ":OUT",
			ActorID:       actorID,
			At:            now,
		})
		if err != nil {
			return err
		}
		dstBal, inMov, err = uc.ledger.RecordInTx(ctx, movRepo, balanceRepo, MovementInput{
			TransactionID: txID,
			Type:          entity.MovementTypeIn,
			Key:           dst,
			Quantity:      in.Quantity,
			Reference:     reference + ":IN",
			ActorID:       actorID,
			At:            now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	out := &dto.TransferResponse{
		TransactionID: txID,
		Reference:     reference,
		Source:        ToBalanceResponse(srcBal),
		Destination:   ToBalanceResponse(dstBal),
		Movements:     []dto.MovementResponse{ToMovementResponse(outMov), ToMovementResponse(inMov)},
	}
	uc.log.Info().Str("transaction_id", txID).Int64("from_warehouse_id", src.WarehouseID).
		Int64("to_warehouse_id", toID).Int64("product_id", src.ProductID).
		Str("quantity", in.Quantity.String()).Msg("traslado de inventario registrado")
	ports.Notify(ctx, uc.publisher, uc.log, ports.Event{
		Name: ports.EventStockTransferred, OccurredAt: now, ActorID: actorID, TransactionID: txID, Payload: out,
	})
	return out, nil
}

// Balances lista saldos actuales con filtros opcionales.
func (uc *StockUseCase) Balances(ctx context.Context, q dto.BalanceQuery) (*dto.BalanceListResponse, error) {
	var (
		f   repository.BalanceFilter
		err error
	)
	if f.WarehouseID, err = dto.ParseOptionalID("warehouse_id", q.WarehouseID); err != nil {
		return nil, err
	}
	if f.ProductID, err = dto.ParseOptionalID("product_id", q.ProductID); err != nil {
		return nil, err
	}
	if f.UnitID, err = dto.ParseOptionalID("unit_id", q.UnitID); err != nil {
		return nil, err
	}
	f.Limit, f.Offset = q.Page.Clamp(uc.limits.Default, uc.limits.Max)

	list, err := uc.balanceRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BalanceResponse, 0, len(list))
	for _, b := range list {
		items = append(items, ToBalanceResponse(b))
	}
	return &dto.BalanceListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}, nil
}

// Movements consulta el kardex ordenado por fecha de creación (más reciente primero).
func (uc *StockUseCase) Movements(ctx context.Context, q dto.MovementQuery) (*dto.MovementListResponse, error) {
	var (
		f   repository.MovementFilter
		err error
	)
	if f.WarehouseID, err = dto.ParseOptionalID("warehouse_id", q.WarehouseID); err != nil {
		return nil, err
	}
	if f.ProductID, err = dto.ParseOptionalID("product_id", q.ProductID); err != nil {
		return nil, err
	}
	if f.UnitID, err = dto.ParseOptionalID("unit_id", q.UnitID); err != nil {
		return nil, err
	}
	if f.InvoiceID, err = dto.ParseOptionalID("invoice_id", q.InvoiceID); err != nil {
		return nil, err
	}
	if f.From, f.To, err = dto.ParseRange(q.From, q.To); err != nil {
		return nil, err
	}
	f.Limit, f.Offset = q.Page.Clamp(uc.limits.Default, uc.limits.Max)

	list, err := uc.movementRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}, nil
}

// ensureAvailable rechaza antes de abrir la transacción una salida que excede el saldo.
// El decremento condicional dentro de la transacción sigue siendo la garantía ante concurrencia.
func (uc *StockUseCase) ensureAvailable(ctx context.Context, key entity.BalanceKey, qty decimal.Decimal) error {
	bal, err := uc.balanceRepo.Get(ctx, key)
	if err != nil {
		return err
	}
	available := decimal.Zero
	if bal != nil {
		available = bal.Quantity
	}
	if available.LessThan(qty) {
		return domain.InsufficientStock("stock insuficiente en bodega %d: disponible %s, requerido %s",
			key.WarehouseID, available.String(), qty.String())
	}
	return nil
}

func parseKey(warehouseID, productID, unitID string) (entity.BalanceKey, error) {
	var (
		key entity.BalanceKey
		err error
	)
	if key.WarehouseID, err = dto.ParseID("warehouse_id", warehouseID); err != nil {
		return key, err
	}
	if key.ProductID, err = dto.ParseID("product_id", productID); err != nil {
		return key, err
	}
	if key.UnitID, err = dto.ParseID("unit_id", unitID); err != nil {
		return key, err
	}
	return key, nil
}

// ToBalanceResponse mapea el saldo de dominio a la respuesta.
func ToBalanceResponse(b *entity.StockBalance) dto.BalanceResponse {
	return dto.BalanceResponse{
		WarehouseID: b.WarehouseID,
		ProductID:   b.ProductID,
		UnitID:      b.UnitID,
		Quantity:    b.Quantity,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ToMovementResponse mapea el movimiento de dominio a la respuesta.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		Type:          string(m.Type),
		Direction:     string(m.Direction),
		WarehouseID:   m.WarehouseID,
		ProductID:     m.ProductID,
		UnitID:        m.UnitID,
		Quantity:      m.Quantity,
		Reference:     m.Reference,
		InvoiceID:     m.InvoiceID,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
