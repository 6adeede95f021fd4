package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// Los GetByID de este archivo retornan (nil, nil) cuando el registro no existe.

// ProviderRepository persistencia de proveedores.
type ProviderRepository interface {
	Create(ctx context.Context, provider *entity.Provider) error
	GetByID(ctx context.Context, id int64) (*entity.Provider, error)
	// List ordena por id; limit <= 0 no limita.
	List(ctx context.Context, limit, offset int) ([]*entity.Provider, error)
}

// ClientRepository persistencia de clientes.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
	// GetByCardID busca por documento de identidad; (nil, nil) si no existe.
	GetByCardID(ctx context.Context, cardID string) (*entity.Client, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Client, error)
}
