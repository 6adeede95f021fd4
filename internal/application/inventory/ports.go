package inventory

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Stock     repository.ProductStockRepository
	Movements repository.MovementRepository
	Providers repository.ProviderRepository
	Clients   repository.ClientRepository
	Users     repository.UserRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback; en otro caso Commit. Los bloqueos de fila se liberan
// recién al terminar la transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
