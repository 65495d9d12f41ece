package ports

import (
	"context"
	"time"

	"github.com/jhoicas/costeo-api/pkg/logger"
)

// Nombres de eventos de dominio. Se publican solo después del commit.
const (
	EventStockAdjusted    = "stock.adjusted"
	EventStockTransferred = "stock.transferred"
	EventInvoiceCreated   = "invoice.created"
	EventInvoiceConfirmed = "invoice.confirmed"
	EventInvoiceCanceled  = "invoice.canceled"
)

// Event evento de dominio. Payload debe ser serializable a JSON.
type Event struct {
	Name          string
	OccurredAt    time.Time
	ActorID       int64
	TransactionID string
	Payload       any
}

// EventPublisher define el puerto de salida para notificar cambios confirmados
// (NATS en producción, no-op cuando no hay broker configurado).
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NoopPublisher descarta los eventos.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Notify publica el evento y solo registra el fallo: la transacción ya fue confirmada
// y el caller no debe recibir un error por la notificación.
func Notify(ctx context.Context, p EventPublisher, log *logger.Logger, evt Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).Str("event", evt.Name).Str("transaction_id", evt.TransactionID).
			Msg("no se pudo publicar el evento")
	}
}
