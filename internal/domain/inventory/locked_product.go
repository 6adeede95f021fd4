package inventory

import (
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// LockedProduct es un producto cuya fila está bloqueada por la unidad de trabajo actual.
// Solo se obtiene mediante LockInOrder; es el único punto que expone AdjustStock.
type LockedProduct struct {
	product *entity.Product
	dirty   bool
}

// Product devuelve el producto bloqueado (solo lectura para el llamador).
func (l *LockedProduct) Product() *entity.Product { return l.product }

// Stock stock actual en memoria, incluyendo ajustes no persistidos.
func (l *LockedProduct) Stock() int { return l.product.Stock }

// AdjustStock aplica stock += delta en memoria. Un resultado negativo se rechaza
// con *domain.InsufficientStockError sin modificar el producto.
func (l *LockedProduct) AdjustStock(delta int) error {
	next := l.product.Stock + delta
	if next < 0 {
		return &domain.InsufficientStockError{
			ProductID: l.product.ID,
			Available: l.product.Stock,
			Requested: -delta,
		}
	}
	l.product.Stock = next
	l.dirty = true
	return nil
}

// LockSet productos bloqueados de una unidad de trabajo, indexados por id.
type LockSet struct {
	order    []int64
	products map[int64]*LockedProduct
}

// Get devuelve el producto bloqueado con ese id.
func (s *LockSet) Get(id int64) (*LockedProduct, bool) {
	l, ok := s.products[id]
	return l, ok
}

// Order ids en el orden en que se adquirieron los bloqueos.
func (s *LockSet) Order() []int64 { return s.order }

// Flush persiste el stock de los productos modificados, en orden de bloqueo.
func (s *LockSet) Flush(ctx context.Context, store repository.ProductStockRepository) error {
	for _, id := range s.order {
		l := s.products[id]
		if !l.dirty {
			continue
		}
		if err := store.SaveStock(ctx, id, l.product.Stock); err != nil {
			return fmt.Errorf("save stock %d: %w", id, err)
		}
		l.dirty = false
	}
	return nil
}

// SortedDistinct ids únicos en orden ascendente: el orden global de bloqueo.
func SortedDistinct(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// LockInOrder bloquea cada producto referenciado exactamente una vez y en orden
// ascendente de id, de modo que dos unidades de trabajo que comparten productos
// nunca esperan en ciclo. Un id inexistente falla con NotFound("Product", id).
func LockInOrder(ctx context.Context, store repository.ProductStockRepository, ids []int64) (*LockSet, error) {
	order := SortedDistinct(ids)
	set := &LockSet{order: order, products: make(map[int64]*LockedProduct, len(order))}
	for _, id := range order {
		p, err := store.LockForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lock product %d: %w", id, err)
		}
		if p == nil {
			return nil, domain.NewNotFound("Product", id)
		}
		set.products[id] = &LockedProduct{product: p}
	}
	return set, nil
}
