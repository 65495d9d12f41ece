// Package events publica los eventos de dominio en NATS una vez confirmada la transacción.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/costeo-api/internal/application/ports"
)

var _ ports.EventPublisher = (*NATSPublisher)(nil)

// Conn lo que el publicador necesita de *nats.Conn.
type Conn interface {
	Publish(subject string, data []byte) error
}

// envelope cuerpo del mensaje publicado.
type envelope struct {
	Event         string    `json:"event"`
	OccurredAt    time.Time `json:"occurred_at"`
	ActorID       string    `json:"actor_id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Data          any       `json:"data"`
}

// NATSPublisher publica cada evento en <prefix>.<nombre>, p. ej. costeo.invoice.confirmed.
type NATSPublisher struct {
	conn   Conn
	prefix string
}

// NewNATSPublisher construye el publicador sobre una conexión abierta.
func NewNATSPublisher(conn Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Subject devuelve el subject NATS de un evento.
func (p *NATSPublisher) Subject(event string) string {
	if p.prefix == "" {
		return event
	}
	return p.prefix + "." + event
}

// Publish serializa el evento y lo envía. No espera confirmación del broker.
func (p *NATSPublisher) Publish(ctx context.Context, evt ports.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(envelope{
		Event:         evt.Name,
		OccurredAt:    evt.OccurredAt,
		ActorID:       strconv.FormatInt(evt.ActorID, 10),
		TransactionID: evt.TransactionID,
		Data:          evt.Payload,
	})
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", evt.Name, err)
	}
	if err := p.conn.Publish(p.Subject(evt.Name), data); err != nil {
		return fmt.Errorf("publicar evento %s: %w", evt.Name, err)
	}
	return nil
}

// Connect abre la conexión NATS con reconexión indefinida.
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("conectar a NATS %s: %w", url, err)
	}
	return nc, nil
}
