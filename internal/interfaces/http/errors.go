package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

// BusinessErrorCounter cuenta rechazos de negocio por tipo (lo implementa metrics.Metrics).
type BusinessErrorCounter interface {
	BusinessError(kind string)
}

// errorMapper traduce errores de los casos de uso a respuestas HTTP.
type errorMapper struct {
	log     *logger.Logger
	counter BusinessErrorCounter
}

// respond: VALIDATION→400, NOT_FOUND→404, INSUFFICIENT_STOCK→409, resto→500 (se registra, no se expone).
func (m errorMapper) respond(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	status := fiber.StatusInternalServerError
	switch kind {
	case domain.KindValidation:
		status = fiber.StatusBadRequest
	case domain.KindNotFound:
		status = fiber.StatusNotFound
	case domain.KindInsufficientStock:
		status = fiber.StatusConflict
	}
	if kind == "" {
		m.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
	if m.counter != nil {
		m.counter.BusinessError(string(kind))
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: string(kind), Message: err.Error()})
}

func (m errorMapper) invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func (m errorMapper) unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", 0), Offset: c.QueryInt("offset", 0)}
}
