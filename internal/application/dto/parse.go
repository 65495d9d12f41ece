package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// DateLayout formato de fechas de negocio en la frontera.
const DateLayout = "2006-01-02"

// ParseID convierte un ID recibido como string (precisión segura) en int64 positivo.
func ParseID(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.Validation("%s es requerido", field)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation("%s malformado: %q", field, raw)
	}
	return id, nil
}

// ParseOptionalID como ParseID pero un valor vacío devuelve 0 (sin filtro).
func ParseOptionalID(field, raw string) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return ParseID(field, raw)
}

// CheckQuantity exige una cantidad mayor que cero con a lo sumo entity.QuantityScale decimales.
func CheckQuantity(field string, q decimal.Decimal) error {
	if !q.IsPositive() {
		return domain.Validation("%s debe ser mayor que cero", field)
	}
	return checkScale(field, q)
}

// CheckPrice exige un precio no negativo (o positivo si positive) con a lo sumo entity.QuantityScale decimales.
func CheckPrice(field string, p decimal.Decimal, positive bool) error {
	if positive && !p.IsPositive() {
		return domain.Validation("%s debe ser mayor que cero", field)
	}
	if p.IsNegative() {
		return domain.Validation("%s no puede ser negativo", field)
	}
	return checkScale(field, p)
}

func checkScale(field string, d decimal.Decimal) error {
	if !entity.FitsScale(d) {
		return domain.Validation("%s admite máximo %d decimales: %s", field, entity.QuantityScale, d.String())
	}
	return nil
}

// ParseDate convierte una fecha YYYY-MM-DD.
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.Validation("%s es requerido", field)
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, domain.Validation("%s debe tener formato YYYY-MM-DD: %q", field, raw)
	}
	return d, nil
}

// ParseRange convierte un rango opcional de fechas. Acepta RFC3339 o YYYY-MM-DD;
// un "hasta" con solo fecha incluye el día completo.
func ParseRange(fromRaw, toRaw string) (from, to *time.Time, err error) {
	if from, err = parseBound("from", fromRaw, false); err != nil {
		return nil, nil, err
	}
	if to, err = parseBound("to", toRaw, true); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, domain.Validation("rango de fechas inválido: from es posterior a to")
	}
	return from, to, nil
}

func parseBound(field, raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, domain.Validation("%s debe ser RFC3339 o YYYY-MM-DD: %q", field, raw)
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return &d, nil
}
