package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
)

func newStoreWithProduct(t *testing.T, stock int) (*memory.Store, *entity.Product) {
	t.Helper()
	s := memory.NewStore(30 * time.Millisecond)
	p := s.AddProduct(entity.Product{Name: "Laptop", Price: decimal.NewFromInt(10), Stock: stock, Enabled: true})
	return s, p
}

func TestRun_CommitAplicaStockPendiente(t *testing.T) {
	s, p := newStoreWithProduct(t, 5)
	ctx := context.Background()

	err := s.Run(ctx, func(repos inventory.Repos) error {
		locked, err := repos.Stock.LockForUpdate(ctx, p.ID)
		require.NoError(t, err)
		require.NoError(t, repos.Stock.SaveStock(ctx, p.ID, locked.Stock-2))

		again, err := repos.Stock.LockForUpdate(ctx, p.ID)
		require.NoError(t, err, "el bloqueo es reentrante dentro de la misma unidad")
		assert.Equal(t, 3, again.Stock, "la lectura ve el stock pendiente")
		return nil
	})
	require.NoError(t, err)

	got, _ := s.GetByID(ctx, p.ID)
	assert.Equal(t, 3, got.Stock)
}

func TestRun_ErrorDescartaEscrituras(t *testing.T) {
	s, p := newStoreWithProduct(t, 5)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(repos inventory.Repos) error {
		_, err := repos.Stock.LockForUpdate(ctx, p.ID)
		require.NoError(t, err)
		require.NoError(t, repos.Stock.SaveStock(ctx, p.ID, 0))
		require.NoError(t, repos.Movements.Save(ctx, &entity.Movement{Kind: entity.MovementSale}))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	got, _ := s.GetByID(ctx, p.ID)
	assert.Equal(t, 5, got.Stock)
	list, _ := s.Movements().FindAll(ctx, entity.MovementSale)
	assert.Empty(t, list)
}

func TestLockForUpdate_TimeoutMientrasOtraUnidadLoRetiene(t *testing.T) {
	s, p := newStoreWithProduct(t, 5)
	ctx := context.Background()
	locked, release, done := make(chan struct{}), make(chan struct{}), make(chan struct{})

	go func() {
		defer close(done)
		_ = s.Run(ctx, func(repos inventory.Repos) error {
			_, _ = repos.Stock.LockForUpdate(ctx, p.ID)
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	err := s.Run(ctx, func(repos inventory.Repos) error {
		_, err := repos.Stock.LockForUpdate(ctx, p.ID)
		return err
	})
	close(release)
	<-done

	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	assert.True(t, domain.IsRetryable(err))

	// Liberado el bloqueo, otra unidad puede tomarlo.
	err = s.Run(ctx, func(repos inventory.Repos) error {
		_, err := repos.Stock.LockForUpdate(ctx, p.ID)
		return err
	})
	assert.NoError(t, err)
}

func TestLockForUpdate_ProductoInexistente(t *testing.T) {
	s := memory.NewStore(time.Second)
	ctx := context.Background()

	_ = s.Run(ctx, func(repos inventory.Repos) error {
		got, err := repos.Stock.LockForUpdate(ctx, 99)
		assert.NoError(t, err)
		assert.Nil(t, got)
		return nil
	})
}

func TestSaveStock_SinBloqueoONegativo(t *testing.T) {
	s, p := newStoreWithProduct(t, 5)
	ctx := context.Background()

	_ = s.Run(ctx, func(repos inventory.Repos) error {
		assert.ErrorIs(t, repos.Stock.SaveStock(ctx, p.ID, 1), domain.ErrConflict)
		_, err := repos.Stock.LockForUpdate(ctx, p.ID)
		require.NoError(t, err)
		assert.ErrorIs(t, repos.Stock.SaveStock(ctx, p.ID, -1), domain.ErrInsufficientStock)
		return nil
	})
}

func TestMovements_SaveFueraDeTransaccionRechazado(t *testing.T) {
	s := memory.NewStore(time.Second)

	err := s.Movements().Save(context.Background(), &entity.Movement{Kind: entity.MovementSale})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestList_FiltraYPagina(t *testing.T) {
	s := memory.NewStore(time.Second)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.AddProduct(entity.Product{Name: "P", Enabled: i%2 == 0})
	}

	all, err := s.List(ctx, repository.ProductFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	enabled, err := s.List(ctx, repository.ProductFilter{Limit: 10, OnlyEnabled: true})
	require.NoError(t, err)
	assert.Len(t, enabled, 3)

	page, err := s.List(ctx, repository.ProductFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(5), page[0].ID)
}

func TestDeleteOrDisable_EsperaVentaEnCursoYDeshabilita(t *testing.T) {
	s := memory.NewStore(time.Second)
	p := s.AddProduct(entity.Product{Name: "Laptop", Price: decimal.NewFromInt(10), Stock: 5, Enabled: true})
	ctx := context.Background()
	locked, release, saleDone := make(chan struct{}), make(chan struct{}), make(chan error, 1)

	go func() {
		saleDone <- s.Run(ctx, func(repos inventory.Repos) error {
			cur, err := repos.Stock.LockForUpdate(ctx, p.ID)
			if err != nil {
				return err
			}
			close(locked)
			<-release
			if err := repos.Stock.SaveStock(ctx, p.ID, cur.Stock-1); err != nil {
				return err
			}
			return repos.Movements.Save(ctx, &entity.Movement{
				Kind:  entity.MovementSale,
				Lines: []entity.MovementLine{{ProductID: p.ID, Quantity: 1}},
			})
		})
	}()
	<-locked

	type result struct {
		disabled bool
		err      error
	}
	deleted := make(chan result, 1)
	go func() {
		disabled, err := s.DeleteOrDisable(ctx, p.ID)
		deleted <- result{disabled, err}
	}()

	select {
	case <-deleted:
		t.Fatal("la baja no debe completarse mientras la venta retiene la fila")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	require.NoError(t, <-saleDone)

	res := <-deleted
	require.NoError(t, res.err)
	assert.True(t, res.disabled, "la venta confirmada referencia al producto")
	got, _ := s.GetByID(ctx, p.ID)
	require.NotNil(t, got)
	assert.False(t, got.Enabled)
	assert.Equal(t, 4, got.Stock)
}

func TestDeleteOrDisable_TimeoutConFilaBloqueada(t *testing.T) {
	s, p := newStoreWithProduct(t, 5)
	ctx := context.Background()

	err := s.Run(ctx, func(repos inventory.Repos) error {
		_, err := repos.Stock.LockForUpdate(ctx, p.ID)
		require.NoError(t, err)

		_, delErr := s.DeleteOrDisable(ctx, p.ID)
		assert.ErrorIs(t, delErr, domain.ErrLockTimeout)
		updErr := s.Update(ctx, &entity.Product{ID: p.ID, Name: "Otro"})
		assert.ErrorIs(t, updErr, domain.ErrLockTimeout)
		return nil
	})
	require.NoError(t, err)

	got, _ := s.GetByID(ctx, p.ID)
	require.NotNil(t, got)
	assert.Equal(t, "Laptop", got.Name)
}

func TestDeleteOrDisable_SinReferenciasElimina(t *testing.T) {
	s, p := newStoreWithProduct(t, 5)
	ctx := context.Background()

	disabled, err := s.DeleteOrDisable(ctx, p.ID)

	require.NoError(t, err)
	assert.False(t, disabled)
	got, _ := s.GetByID(ctx, p.ID)
	assert.Nil(t, got)

	_, err = s.DeleteOrDisable(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
