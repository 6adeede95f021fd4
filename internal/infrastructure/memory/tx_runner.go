package memory

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner                = (*Store)(nil)
	_ repository.ProductStockRepository = (*unitOfWork)(nil)
	_ repository.MovementRepository     = (*unitOfWork)(nil)
)

// unitOfWork transacción en memoria: bloqueos tomados y escrituras pendientes.
type unitOfWork struct {
	s         *Store
	held      []int64
	stock     map[int64]int
	movements []*entity.Movement
}

// Run ejecuta fn con repositorios atados a una unidad de trabajo. Las escrituras
// se aplican solo si fn no falla; los bloqueos se liberan siempre al salir.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	uow := &unitOfWork{s: s, stock: map[int64]int{}}
	defer uow.release()

	if err := fn(inventory.Repos{
		Stock:     uow,
		Movements: uow,
		Providers: s.Providers(),
		Clients:   s.Clients(),
		Users:     s.Users(),
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	uow.commit()
	return nil
}

func (s *Store) rowLock(id int64) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.rowLocks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[id] = ch
	}
	return ch
}

// acquireRow espera el bloqueo de la fila como máximo lockTimeout.
func (s *Store) acquireRow(ctx context.Context, id int64) error {
	ch := s.rowLock(id)
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) releaseRow(id int64) {
	<-s.rowLock(id)
}

func (u *unitOfWork) holds(id int64) bool {
	for _, h := range u.held {
		if h == id {
			return true
		}
	}
	return false
}

// LockForUpdate espera el bloqueo del producto como máximo lockTimeout.
func (u *unitOfWork) LockForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	if !u.holds(id) {
		if err := u.s.acquireRow(ctx, id); err != nil {
			return nil, err
		}
		u.held = append(u.held, id)
	}

	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	p, ok := u.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	if staged, ok := u.stock[id]; ok {
		cp.Stock = staged
	}
	return &cp, nil
}

// SaveStock deja el nuevo stock pendiente hasta el commit.
func (u *unitOfWork) SaveStock(_ context.Context, id int64, stock int) error {
	if !u.holds(id) {
		return domain.ErrConflict
	}
	if stock < 0 {
		return domain.ErrInsufficientStock
	}
	u.stock[id] = stock
	return nil
}

// Save asigna ids y deja el movimiento pendiente hasta el commit.
func (u *unitOfWork) Save(_ context.Context, m *entity.Movement) error {
	u.s.mu.Lock()
	m.ID = u.s.nextID(string(m.Kind), 0)
	for i := range m.Lines {
		m.Lines[i].ID = u.s.nextID(string(m.Kind)+"_line", 0)
	}
	u.s.mu.Unlock()
	u.movements = append(u.movements, cloneMovement(m))
	return nil
}

func (u *unitOfWork) FindByID(ctx context.Context, kind entity.MovementKind, id int64) (*entity.Movement, error) {
	return u.s.Movements().FindByID(ctx, kind, id)
}

func (u *unitOfWork) FindAll(ctx context.Context, kind entity.MovementKind) ([]*entity.Movement, error) {
	return u.s.Movements().FindAll(ctx, kind)
}

func (u *unitOfWork) commit() {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	now := time.Now()
	for id, stock := range u.stock {
		if p, ok := u.s.products[id]; ok {
			p.Stock = stock
			p.UpdatedAt = now
		}
	}
	for _, m := range u.movements {
		u.s.movements[m.Kind] = append(u.s.movements[m.Kind], m)
	}
}

func (u *unitOfWork) release() {
	for _, id := range u.held {
		u.s.releaseRow(id)
	}
	u.held = nil
}
