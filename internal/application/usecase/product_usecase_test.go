package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/pricing"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
)

func TestProductUseCase_CreateIniciaSinStock(t *testing.T) {
	store := memory.NewStore(time.Second)
	uc := usecase.NewProductUseCase(store)

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "  Teclado ", Price: decimal.NewFromInt(45)})

	require.NoError(t, err)
	assert.NotZero(t, out.ID)
	assert.Equal(t, "Teclado", out.Name)
	assert.Equal(t, 0, out.Stock)
	assert.True(t, out.Enabled)
}

func TestProductUseCase_CreatePrecioNegativo(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore(time.Second))

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "X", Price: decimal.NewFromInt(-1)})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_PrecioConCincoDecimales(t *testing.T) {
	store := memory.NewStore(time.Second)
	p := store.AddProduct(entity.Product{Name: "Monitor", Price: decimal.NewFromInt(500), Enabled: true})
	uc := usecase.NewProductUseCase(store)
	price := decimal.RequireFromString("10.00001")

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "X", Price: price})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Price: &price})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	got, _ := store.GetByID(context.Background(), p.ID)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(500)))
}

func TestProductUseCase_UpdateNoTocaStock(t *testing.T) {
	store := memory.NewStore(time.Second)
	p := store.AddProduct(entity.Product{Name: "Monitor", Price: decimal.NewFromInt(500), Stock: 7, Enabled: true})
	uc := usecase.NewProductUseCase(store)
	price := decimal.NewFromInt(550)

	out, err := uc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Price: &price})

	require.NoError(t, err)
	assert.True(t, out.Price.Equal(price))
	got, _ := store.GetByID(context.Background(), p.ID)
	assert.Equal(t, 7, got.Stock)
}

func TestProductUseCase_UpdateInexistente(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore(time.Second))

	out, err := uc.Update(context.Background(), 99, dto.UpdateProductRequest{})

	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestProductUseCase_DeleteSinMovimientosElimina(t *testing.T) {
	store := memory.NewStore(time.Second)
	p := store.AddProduct(entity.Product{Name: "Cable", Price: decimal.NewFromInt(5), Enabled: true})
	uc := usecase.NewProductUseCase(store)

	out, err := uc.Delete(context.Background(), p.ID)

	require.NoError(t, err)
	assert.True(t, out.Deleted)
	got, _ := store.GetByID(context.Background(), p.ID)
	assert.Nil(t, got)
}

func TestProductUseCase_DeleteConMovimientosDeshabilita(t *testing.T) {
	store := memory.NewStore(time.Second)
	p := store.AddProduct(entity.Product{Name: "Cable", Price: decimal.NewFromInt(5), Enabled: true})
	provider := store.AddProvider(entity.Provider{Name: "Proveedor", Enabled: true})
	user := &entity.User{Username: "admin", Role: entity.RoleAdmin, Enabled: true}
	require.NoError(t, store.Users().Create(context.Background(), user))
	proc := inventory.NewProcessor(store, store.Movements(), pricing.NewEngine(nil), zerolog.Nop())
	_, err := proc.CreateIngress(context.Background(), inventory.IngressCommand{
		ProviderID: provider.ID, UserID: user.ID,
		Lines: []inventory.IngressLine{{ProductID: p.ID, Quantity: 3, Cost: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)
	uc := usecase.NewProductUseCase(store)

	out, err := uc.Delete(context.Background(), p.ID)

	require.NoError(t, err)
	assert.True(t, out.Disabled)
	got, _ := store.GetByID(context.Background(), p.ID)
	require.NotNil(t, got)
	assert.False(t, got.Enabled)
	assert.Equal(t, 3, got.Stock)
}

// heldRunner retiene la unidad de trabajo abierta (bloqueos tomados, escrituras pendientes)
// hasta que se cierra release.
type heldRunner struct {
	store   *memory.Store
	staged  chan struct{}
	release chan struct{}
}

func (r *heldRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	return r.store.Run(ctx, func(repos inventory.Repos) error {
		if err := fn(repos); err != nil {
			return err
		}
		close(r.staged)
		<-r.release
		return nil
	})
}

func TestProductUseCase_DeleteDuranteVentaDeshabilita(t *testing.T) {
	store := memory.NewStore(time.Second)
	ctx := context.Background()
	p := store.AddProduct(entity.Product{Name: "Laptop", Price: decimal.NewFromInt(10), Stock: 5, Enabled: true})
	client := store.AddClient(entity.Client{FirstName: "John", LastName: "Doe"})
	user := &entity.User{Username: "vendedor", Role: entity.RoleSeller, Enabled: true}
	require.NoError(t, store.Users().Create(ctx, user))

	runner := &heldRunner{store: store, staged: make(chan struct{}), release: make(chan struct{})}
	proc := inventory.NewProcessor(runner, store.Movements(), pricing.NewEngine(nil), zerolog.Nop())
	saleErr := make(chan error, 1)
	go func() {
		_, err := proc.CreateSale(ctx, inventory.SaleCommand{
			ClientID: client.ID, UserID: user.ID,
			Lines: []inventory.SaleLine{{ProductID: p.ID, Quantity: 2}},
		})
		saleErr <- err
	}()
	<-runner.staged

	type result struct {
		out *dto.DeleteProductResponse
		err error
	}
	deleted := make(chan result, 1)
	go func() {
		out, err := usecase.NewProductUseCase(store).Delete(ctx, p.ID)
		deleted <- result{out, err}
	}()
	close(runner.release)
	require.NoError(t, <-saleErr)

	res := <-deleted
	require.NoError(t, res.err)
	assert.True(t, res.out.Disabled)
	assert.False(t, res.out.Deleted)
	got, _ := store.GetByID(ctx, p.ID)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Stock)
	sales, err := store.Movements().FindAll(ctx, entity.MovementSale)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.NotNil(t, sales[0].Lines[0].Product)
	assert.Equal(t, "Laptop", sales[0].Lines[0].Product.Name)
}

func TestProductUseCase_DeleteInexistente(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore(time.Second))

	_, err := uc.Delete(context.Background(), 5)

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Product", nf.Entity)
}

func TestProductUseCase_ListPaginado(t *testing.T) {
	store := memory.NewStore(time.Second)
	for i := 0; i < 5; i++ {
		store.AddProduct(entity.Product{Name: "P", Price: decimal.NewFromInt(1), Enabled: i != 2})
	}
	uc := usecase.NewProductUseCase(store)

	out, err := uc.List(context.Background(), dto.PageRequest{Limit: 2, Offset: 1}, true)

	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, int64(2), out.Items[0].ID)
	assert.Equal(t, int64(4), out.Items[1].ID)
}
