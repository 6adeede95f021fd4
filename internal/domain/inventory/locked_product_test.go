package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	products map[int64]*entity.Product
	locked   []int64
	saved    map[int64]int
	lockErr  error
}

func newFakeStore(products ...*entity.Product) *fakeStore {
	s := &fakeStore{products: map[int64]*entity.Product{}, saved: map[int64]int{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) LockForUpdate(_ context.Context, id int64) (*entity.Product, error) {
	if s.lockErr != nil {
		return nil, s.lockErr
	}
	s.locked = append(s.locked, id)
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) SaveStock(_ context.Context, id int64, stock int) error {
	s.saved[id] = stock
	return nil
}

func TestSortedDistinct(t *testing.T) {
	in := []int64{7, 2, 7, 5, 2}
	assert.Equal(t, []int64{2, 5, 7}, inventory.SortedDistinct(in))
	assert.Equal(t, []int64{7, 2, 7, 5, 2}, in, "no debe mutar la entrada")
}

func TestLockInOrder_AscendenteYUnaVezPorProducto(t *testing.T) {
	store := newFakeStore(&entity.Product{ID: 1}, &entity.Product{ID: 2}, &entity.Product{ID: 3})

	set, err := inventory.LockInOrder(context.Background(), store, []int64{3, 1, 3, 2})

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, store.locked)
	assert.Equal(t, []int64{1, 2, 3}, set.Order())
}

func TestLockInOrder_ProductoInexistente(t *testing.T) {
	store := newFakeStore(&entity.Product{ID: 1})

	_, err := inventory.LockInOrder(context.Background(), store, []int64{1, 9})

	require.Error(t, err)
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Product", nf.Entity)
	assert.Equal(t, int64(9), nf.ID)
}

func TestLockInOrder_PropagaLockTimeout(t *testing.T) {
	store := newFakeStore(&entity.Product{ID: 1})
	store.lockErr = domain.ErrLockTimeout

	_, err := inventory.LockInOrder(context.Background(), store, []int64{1})

	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	assert.True(t, domain.IsRetryable(err))
}

func TestAdjustStock_NoPermiteNegativo(t *testing.T) {
	store := newFakeStore(&entity.Product{ID: 4, Stock: 2})
	set, err := inventory.LockInOrder(context.Background(), store, []int64{4})
	require.NoError(t, err)
	lp, ok := set.Get(4)
	require.True(t, ok)

	err = lp.AdjustStock(-3)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 2, ise.Available)
	assert.Equal(t, 3, ise.Requested)
	assert.Equal(t, 2, lp.Stock())
}

func TestFlush_SoloProductosModificados(t *testing.T) {
	store := newFakeStore(&entity.Product{ID: 1, Stock: 5}, &entity.Product{ID: 2, Stock: 5})
	set, err := inventory.LockInOrder(context.Background(), store, []int64{1, 2})
	require.NoError(t, err)
	lp, _ := set.Get(2)
	require.NoError(t, lp.AdjustStock(+4))

	require.NoError(t, set.Flush(context.Background(), store))

	assert.Equal(t, map[int64]int{2: 9}, store.saved)
}
