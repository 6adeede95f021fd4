package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrEmptyLines        = errors.New("el movimiento debe tener al menos un detalle")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrLockTimeout indica contención transitoria sobre una fila de producto; el llamador puede reintentar.
	ErrLockTimeout = errors.New("tiempo de espera de bloqueo agotado")
)

// NotFoundError identifica la entidad y el id que no existen.
// errors.Is(err, ErrNotFound) es verdadero para cualquier *NotFoundError.
type NotFoundError struct {
	Entity string
	ID     int64
}

// NewNotFound construye un NotFoundError para la entidad indicada.
func NewNotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado con id: %d", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError reporta el faltante de una línea de venta.
type InsufficientStockError struct {
	ProductID int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %d: disponible %d, solicitado %d",
		e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// IsRetryable indica si el error proviene de contención de bloqueos.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout)
}
