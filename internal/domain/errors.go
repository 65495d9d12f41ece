package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Kind clasifica un error de negocio de forma legible por máquina.
type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindNotFound          Kind = "NOT_FOUND"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
)

// Error es un error de negocio con tipo y mensaje para el usuario.
// Unwrap devuelve el sentinel de su tipo, así errors.Is(err, ErrNotFound) sigue funcionando.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindValidation:
		return ErrInvalidInput
	case KindNotFound:
		return ErrNotFound
	case KindInsufficientStock:
		return ErrInsufficientStock
	}
	return nil
}

// Validation construye un error de validación.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound construye un error de recurso inexistente.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock construye un error de stock insuficiente.
func InsufficientStock(format string, args ...any) error {
	return &Error{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

// KindOf devuelve el tipo del error de negocio, o "" si es un error de infraestructura.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	}
	return ""
}
