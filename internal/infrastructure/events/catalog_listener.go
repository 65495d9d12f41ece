package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/costeo-api/pkg/logger"
)

// CatalogChanged evento que publica el módulo de catálogos al crear, editar, activar o desactivar una fila.
const CatalogChanged = "catalog.changed"

const invalidateTimeout = 2 * time.Second

// Subscriber lo que el listener necesita de *nats.Conn.
type Subscriber interface {
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Invalidator borra la copia local de una fila de catálogo.
type Invalidator interface {
	Invalidate(ctx context.Context, kind string, id int64) error
}

// catalogChange cuerpo del mensaje: {"kind":"product","id":"1790000000000000001"}.
type catalogChange struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id,string"`
}

// ListenCatalogChanges invalida en target cada fila anunciada en subject.
// Un mensaje malformado se registra y se descarta.
func ListenCatalogChanges(conn Subscriber, subject string, target Invalidator, log *logger.Logger) (*nats.Subscription, error) {
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		var change catalogChange
		if err := json.Unmarshal(msg.Data, &change); err != nil || change.Kind == "" || change.ID <= 0 {
			log.Warn().Str("subject", msg.Subject).Bytes("data", msg.Data).Msg("cambio de catálogo malformado")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
		defer cancel()
		if err := target.Invalidate(ctx, change.Kind, change.ID); err != nil {
			log.Warn().Err(err).Str("kind", change.Kind).Int64("id", change.ID).Msg("no se pudo invalidar catálogo")
			return
		}
		log.Debug().Str("kind", change.Kind).Int64("id", change.ID).Msg("catálogo invalidado")
	})
	if err != nil {
		return nil, fmt.Errorf("suscribir %s: %w", subject, err)
	}
	return sub, nil
}
