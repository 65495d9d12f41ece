// Package metrics registra las métricas Prometheus del servicio.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/costeo-api/internal/application/ports"
)

// Metrics agrupa los colectores sobre un registry propio (no el global).
type Metrics struct {
	Registry *prometheus.Registry

	eventsPublished *prometheus.CounterVec
	eventsFailed    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	businessErrors  *prometheus.CounterVec
}

// New crea y registra los colectores, más los de proceso y runtime de Go.
func New(namespace string) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Eventos de dominio publicados, por nombre.",
		}, []string{"event"}),
		eventsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_failed_total",
			Help:      "Eventos de dominio que no se pudieron publicar, por nombre.",
		}, []string{"event"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		businessErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "business_errors_total",
			Help:      "Rechazos de negocio devueltos al cliente, por tipo.",
		}, []string{"kind"}),
	}
	m.Registry.MustRegister(
		m.eventsPublished, m.eventsFailed, m.requestDuration, m.businessErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// BusinessError cuenta un rechazo de negocio (VALIDATION, NOT_FOUND, INSUFFICIENT_STOCK).
func (m *Metrics) BusinessError(kind string) {
	m.businessErrors.WithLabelValues(kind).Inc()
}

// Middleware mide la duración de cada petición por ruta registrada (no por path crudo).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		m.requestDuration.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}

// CountingPublisher decora un EventPublisher contando éxitos y fallos.
type CountingPublisher struct {
	next    ports.EventPublisher
	metrics *Metrics
}

// WrapPublisher devuelve next con conteo de publicaciones.
func (m *Metrics) WrapPublisher(next ports.EventPublisher) *CountingPublisher {
	return &CountingPublisher{next: next, metrics: m}
}

func (p *CountingPublisher) Publish(ctx context.Context, evt ports.Event) error {
	if err := p.next.Publish(ctx, evt); err != nil {
		p.metrics.eventsFailed.WithLabelValues(evt.Name).Inc()
		return err
	}
	p.metrics.eventsPublished.WithLabelValues(evt.Name).Inc()
	return nil
}
