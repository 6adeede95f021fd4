package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// ProductFilter filtros para el listado del catálogo.
type ProductFilter struct {
	Limit       int
	Offset      int
	OnlyEnabled bool
}

// ProductRepository define el puerto de persistencia para Product (catálogo).
// Update nunca modifica el stock: eso es responsabilidad de ProductStockRepository.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// DeleteOrDisable toma el bloqueo de la fila y, en el mismo paso, elimina el producto
	// o lo deshabilita si algún ingreso o venta lo referencia. disabled indica cuál ocurrió.
	// Retorna domain.ErrNotFound si no existe.
	DeleteOrDisable(ctx context.Context, id int64) (disabled bool, err error)
}

// ProductStockRepository acceso exclusivo a la fila de un producto dentro de una unidad de trabajo.
type ProductStockRepository interface {
	// LockForUpdate obtiene el producto y lo bloquea hasta el fin de la transacción.
	// Retorna (nil, nil) si no existe y domain.ErrLockTimeout si la espera vence.
	LockForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// SaveStock persiste el stock de un producto previamente bloqueado.
	SaveStock(ctx context.Context, id int64, stock int) error
}
