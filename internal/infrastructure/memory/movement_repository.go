package memory

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.MovementRepository = movementRepo{}

type movementRepo struct{ s *Store }

// Movements expone las lecturas de ingresos y ventas confirmados.
func (s *Store) Movements() repository.MovementRepository { return movementRepo{s} }

// Save fuera de una unidad de trabajo no está soportado: los movimientos se crean con Run.
func (r movementRepo) Save(_ context.Context, _ *entity.Movement) error {
	return domain.ErrConflict
}

func (r movementRepo) FindByID(_ context.Context, kind entity.MovementKind, id int64) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.movements[kind] {
		if m.ID == id {
			return r.s.hydrate(m), nil
		}
	}
	return nil, nil
}

func (r movementRepo) FindAll(_ context.Context, kind entity.MovementKind) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.s.movements[kind]
	out := make([]*entity.Movement, 0, len(list))
	for _, m := range list {
		out = append(out, r.s.hydrate(m))
	}
	return out, nil
}

// hydrate copia el movimiento y completa los resúmenes; requiere mu tomado.
func (s *Store) hydrate(m *entity.Movement) *entity.Movement {
	cp := cloneMovement(m)
	switch m.Kind {
	case entity.MovementIngress:
		if p, ok := s.providers[m.CounterpartyID]; ok {
			cp.Counterparty = p.Summary()
		}
	case entity.MovementSale:
		if c, ok := s.clients[m.CounterpartyID]; ok {
			cp.Counterparty = c.Summary()
		}
	}
	if u, ok := s.users[m.UserID]; ok {
		cp.Actor = u.Summary()
	}
	for i := range cp.Lines {
		if p, ok := s.products[cp.Lines[i].ProductID]; ok {
			cp.Lines[i].Product = p.Summary()
		}
	}
	return cp
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	cp := *m
	cp.Lines = append([]entity.MovementLine(nil), m.Lines...)
	cp.Counterparty, cp.Actor = nil, nil
	for i := range cp.Lines {
		cp.Lines[i].Product = nil
	}
	return &cp
}
