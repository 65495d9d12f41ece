package purchasing

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/costeo-api/internal/application/catalog"
	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/application/inventory"
	"github.com/jhoicas/costeo-api/internal/application/ports"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

// InvoiceUseCase gestiona el ciclo de vida de las facturas de compra:
// DRAFT (editable) → CONFIRMED (stock ingresado) → CANCELED (stock revertido, terminal).
type InvoiceUseCase struct {
	txRunner    TxRunner
	ledger      *inventory.Ledger
	guard       *catalog.Guard
	invoiceRepo repository.InvoiceRepository
	ids         ports.IDGenerator
	publisher   ports.EventPublisher
	log         *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner TxRunner,
	ledger *inventory.Ledger,
	guard *catalog.Guard,
	invoiceRepo repository.InvoiceRepository,
	ids ports.IDGenerator,
	publisher ports.EventPublisher,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		guard:       guard,
		invoiceRepo: invoiceRepo,
		ids:         ids,
		publisher:   publisher,
		log:         log,
	}
}

// Create registra una factura nueva en DRAFT, sin ítems.
// El número debe ser único por proveedor.
func (uc *InvoiceUseCase) Create(ctx context.Context, actorID int64, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if actorID <= 0 {
		return nil, domain.Validation("actor requerido")
	}
	providerID, err := dto.ParseID("provider_id", in.ProviderID)
	if err != nil {
		return nil, err
	}
	warehouseID, err := dto.ParseID("warehouse_id", in.WarehouseID)
	if err != nil {
		return nil, err
	}
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, domain.Validation("number es requerido")
	}
	date, err := dto.ParseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	if _, err := uc.guard.Provider(ctx, providerID); err != nil {
		return nil, err
	}
	if _, err := uc.guard.Warehouse(ctx, warehouseID); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueNumber(ctx, uc.invoiceRepo, providerID, number, 0); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		ID:          uc.ids.NextID(),
		ProviderID:  providerID,
		WarehouseID: warehouseID,
		Number:      number,
		Date:        date,
		Observation: strings.TrimSpace(in.Observation),
		Status:      entity.InvoiceStatusDraft,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	out := ToInvoiceResponse(inv, nil)
	uc.log.Info().Int64("invoice_id", inv.ID).Int64("provider_id", providerID).
		Int64("actor_id", actorID).Str("number", number).Msg("factura creada")
	ports.Notify(ctx, uc.publisher, uc.log, ports.Event{
		Name: ports.EventInvoiceCreated, OccurredAt: now, ActorID: actorID, Payload: out,
	})
	return out, nil
}

// UpdateHeader modifica la cabecera de una factura en DRAFT. Si cambia el número o el proveedor
// se vuelve a validar la unicidad, sin contar la propia factura.
func (uc *InvoiceUseCase) UpdateHeader(ctx context.Context, actorID int64, invoiceID string, in dto.UpdateInvoiceHeaderRequest) (*dto.InvoiceResponse, error) {
	if actorID <= 0 {
		return nil, domain.Validation("actor requerido")
	}
	id, err := dto.ParseID("invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	// El catálogo se consulta antes de abrir la transacción: no debe pedir otra conexión con la fila bloqueada.
	changes, err := uc.parseHeader(ctx, in)
	if err != nil {
		return nil, err
	}

	var (
		inv   *entity.Invoice
		items []*entity.InvoiceItem
	)
	err = uc.txRunner.RunPurchasing(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.StockMovementRepository, _ repository.StockBalanceRepository) error {
		var err error
		if inv, err = lockInvoice(ctx, invoiceRepo, id); err != nil {
			return err
		}
		if !inv.Status.Editable() {
			return domain.Validation("la factura %d está en estado %s y no admite cambios de cabecera", id, inv.Status)
		}
		changes.apply(inv)
		if err := uc.ensureUniqueNumber(ctx, invoiceRepo, inv.ProviderID, inv.Number, inv.ID); err != nil {
			return err
		}
		inv.UpdatedAt = time.Now().UTC()
		if err := invoiceRepo.UpdateHeader(ctx, inv); err != nil {
			return err
		}
		items, err = invoiceRepo.ListItems(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("invoice_id", id).Int64("actor_id", actorID).Msg("cabecera de factura actualizada")
	return ToInvoiceResponse(inv, items), nil
}

// headerChanges campos de cabecera informados y ya validados; nil = sin cambio.
type headerChanges struct {
	providerID  *int64
	warehouseID *int64
	number      *string
	date        *time.Time
	observation *string
}

// parseHeader valida formato y catálogo de los campos informados.
func (uc *InvoiceUseCase) parseHeader(ctx context.Context, in dto.UpdateInvoiceHeaderRequest) (headerChanges, error) {
	var h headerChanges
	if in.ProviderID != nil {
		providerID, err := dto.ParseID("provider_id", *in.ProviderID)
		if err != nil {
			return h, err
		}
		if _, err := uc.guard.Provider(ctx, providerID); err != nil {
			return h, err
		}
		h.providerID = &providerID
	}
	if in.WarehouseID != nil {
		warehouseID, err := dto.ParseID("warehouse_id", *in.WarehouseID)
		if err != nil {
			return h, err
		}
		if _, err := uc.guard.Warehouse(ctx, warehouseID); err != nil {
			return h, err
		}
		h.warehouseID = &warehouseID
	}
	if in.Number != nil {
		number := strings.TrimSpace(*in.Number)
		if number == "" {
			return h, domain.Validation("number no puede quedar vacío")
		}
		h.number = &number
	}
	if in.Date != nil {
		date, err := dto.ParseDate("date", *in.Date)
		if err != nil {
			return h, err
		}
		h.date = &date
	}
	if in.Observation != nil {
		obs := strings.TrimSpace(*in.Observation)
		h.observation = &obs
	}
	return h, nil
}

func (h headerChanges) apply(inv *entity.Invoice) {
	if h.providerID != nil {
		inv.ProviderID = *h.providerID
	}
	if h.warehouseID != nil {
		inv.WarehouseID = *h.warehouseID
	}
	if h.number != nil {
		inv.Number = *h.number
	}
	if h.date != nil {
		inv.Date = *h.date
	}
	if h.observation != nil {
		inv.Observation = *h.observation
	}
}

// Get devuelve la factura con sus ítems y el total.
func (uc *InvoiceUseCase) Get(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	id, err := dto.ParseID("invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("la factura %d no existe", id)
	}
	items, err := uc.invoiceRepo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv, items), nil
}

// List devuelve una página de facturas filtradas por proveedor, bodega, estado y rango de fechas.
func (uc *InvoiceUseCase) List(ctx context.Context, q dto.InvoiceQuery) (*dto.InvoiceListResponse, error) {
	var (
		f   repository.InvoiceFilter
		err error
	)
	if f.ProviderID, err = dto.ParseOptionalID("provider_id", q.ProviderID); err != nil {
		return nil, err
	}
	if f.WarehouseID, err = dto.ParseOptionalID("warehouse_id", q.WarehouseID); err != nil {
		return nil, err
	}
	if s := strings.ToUpper(strings.TrimSpace(q.Status)); s != "" {
		status, ok := entity.ParseInvoiceStatus(s)
		if !ok {
			return nil, domain.Validation("status inválido: %q", q.Status)
		}
		f.Status = status
	}
	if f.From, f.To, err = dto.ParseRange(q.From, q.To); err != nil {
		return nil, err
	}
	f.Limit, f.Offset = q.Page.Clamp(defaultListLimit, maxListLimit)

	list, total, err := uc.invoiceRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *ToInvoiceResponse(inv, nil))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}, nil
}

func (uc *InvoiceUseCase) ensureUniqueNumber(ctx context.Context, repo repository.InvoiceRepository, providerID int64, number string, excludeID int64) error {
	exists, err := repo.NumberExists(ctx, providerID, number, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.Validation("el proveedor %d ya tiene una factura con número %q", providerID, number)
	}
	return nil
}

// lockInvoice obtiene la factura bloqueando la fila hasta el fin de la transacción.
func lockInvoice(ctx context.Context, repo repository.InvoiceRepository, id int64) (*entity.Invoice, error) {
	inv, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("la factura %d no existe", id)
	}
	return inv, nil
}
