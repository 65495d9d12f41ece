package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas de compra e ítems sobre PostgreSQL (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, provider_id, warehouse_id, number, date, observation, status, created_by,
	confirmed_by, confirmed_at, canceled_by, canceled_at, cancel_reason, created_at, updated_at`

// Create persiste la cabecera. UNIQUE(provider_id, number) cubre la carrera entre NumberExists y el INSERT.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.ProviderID, inv.WarehouseID, inv.Number, inv.Date, inv.Observation, inv.Status, inv.CreatedBy,
		inv.ConfirmedBy, inv.ConfirmedAt, inv.CanceledBy, inv.CanceledAt, inv.CancelReason, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Validation("el proveedor %d ya tiene una factura con número %q", inv.ProviderID, inv.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera; nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate obtiene la cabecera y bloquea la fila (SELECT FOR UPDATE).
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) get(ctx context.Context, query string, id int64) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// NumberExists indica si el número ya está usado por el proveedor, sin contar excludeID.
func (r *InvoiceRepo) NumberExists(ctx context.Context, providerID int64, number string, excludeID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE provider_id = $1 AND number = $2 AND id <> $3)`,
		providerID, number, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return exists, nil
}

// UpdateHeader actualiza los datos editables de la cabecera.
func (r *InvoiceRepo) UpdateHeader(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET provider_id = $2, warehouse_id = $3, number = $4, date = $5, observation = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, inv.ID, inv.ProviderID, inv.WarehouseID, inv.Number, inv.Date, inv.Observation, inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Validation("el proveedor %d ya tiene una factura con número %q", inv.ProviderID, inv.Number)
		}
		return fmt.Errorf("update invoice header: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("la factura %d no existe", inv.ID)
	}
	return nil
}

// UpdateStatus guarda el estado y los campos de auditoría de la transición.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status = $2, observation = $3,
		    confirmed_by = $4, confirmed_at = $5,
		    canceled_by = $6, canceled_at = $7, cancel_reason = $8,
		    updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, inv.ID, inv.Status, inv.Observation,
		inv.ConfirmedBy, inv.ConfirmedAt, inv.CanceledBy, inv.CanceledAt, inv.CancelReason, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("la factura %d no existe", inv.ID)
	}
	return nil
}

// List devuelve la página pedida (fecha descendente) y el total que cumple el filtro.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var w whereBuilder
	w.addIfID("provider_id = $%d", f.ProviderID)
	w.addIfID("warehouse_id = $%d", f.WarehouseID)
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.From != nil {
		w.add("date >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("date <= $%d", *f.To)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices` + w.sql() + ` ORDER BY date DESC, id DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// AddItem persiste una línea.
func (r *InvoiceRepo) AddItem(ctx context.Context, item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, unit_id, quantity, unit_price, observation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, item.ID, item.InvoiceID, item.ProductID, item.UnitID,
		item.Quantity, item.UnitPrice, item.Observation, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// ReplaceItems borra los ítems actuales y guarda los nuevos. Debe correr dentro de una transacción.
func (r *InvoiceRepo) ReplaceItems(ctx context.Context, invoiceID int64, items []*entity.InvoiceItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	for _, it := range items {
		if err := r.AddItem(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

// DeleteItem borra la línea si pertenece a la factura.
func (r *InvoiceRepo) DeleteItem(ctx context.Context, invoiceID, itemID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1 AND id = $2`, invoiceID, itemID)
	if err != nil {
		return false, fmt.Errorf("delete invoice item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListItems devuelve las líneas en orden de alta.
func (r *InvoiceRepo) ListItems(ctx context.Context, invoiceID int64) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, unit_id, quantity, unit_price, observation, created_at
		FROM invoice_items WHERE invoice_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InvoiceItem, 0)
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.UnitID,
			&it.Quantity, &it.UnitPrice, &it.Observation, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.ProviderID, &inv.WarehouseID, &inv.Number, &inv.Date, &inv.Observation,
		&inv.Status, &inv.CreatedBy, &inv.ConfirmedBy, &inv.ConfirmedAt, &inv.CanceledBy, &inv.CanceledAt,
		&inv.CancelReason, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
