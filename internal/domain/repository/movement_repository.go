package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// MovementRepository persiste ingresos y ventas con sus detalles como una sola unidad.
type MovementRepository interface {
	// Save inserta cabecera y detalles y asigna los ids generados.
	Save(ctx context.Context, m *entity.Movement) error
	// FindByID carga el movimiento con detalles y resúmenes; (nil, nil) si no existe.
	FindByID(ctx context.Context, kind entity.MovementKind, id int64) (*entity.Movement, error)
	FindAll(ctx context.Context, kind entity.MovementKind) ([]*entity.Movement, error)
}
