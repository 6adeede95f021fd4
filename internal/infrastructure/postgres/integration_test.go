//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/pricing"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ventas-api/pkg/config"
)

// Ejecutar con: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
// La base indicada se vacía en cada test.

type dbFixture struct {
	pool     *pgxpool.Pool
	products *postgres.ProductRepo
	provider *entity.Provider
	client   *entity.Client
	user     *entity.User
}

func newDBFixture(t *testing.T) *dbFixture {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definida")
	}
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 5})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile("../../../migrations/001_init.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE sale_details, sales, ingress_details, ingresses,
		products, categories, providers, clients, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	f := &dbFixture{
		pool:     pool,
		products: postgres.NewProductRepository(pool),
		provider: &entity.Provider{Name: "Acme", Enabled: true},
		client:   &entity.Client{FirstName: "John", LastName: "Doe", CardID: "445566"},
		user:     &entity.User{Username: "seller", PasswordHash: "x", Role: entity.RoleAdmin, Enabled: true},
	}
	require.NoError(t, postgres.NewProviderRepository(pool).Create(ctx, f.provider))
	require.NoError(t, postgres.NewClientRepository(pool).Create(ctx, f.client))
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, f.user))
	return f
}

func (f *dbFixture) product(t *testing.T, price string) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: "Laptop", Price: decimal.RequireFromString(price), Enabled: true}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *dbFixture) stockOf(t *testing.T, id int64) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (f *dbFixture) processor(lockTimeout time.Duration) *inventory.Processor {
	return inventory.NewProcessor(postgres.NewTxRunner(f.pool, lockTimeout),
		postgres.NewMovementRepository(f.pool), pricing.NewEngine(nil), zerolog.Nop())
}

func TestPostgres_IngresoYVentaPersistenStockYDetalle(t *testing.T) {
	f := newDBFixture(t)
	ctx := context.Background()
	p := f.product(t, "15.5")
	proc := f.processor(time.Second)
	tax := decimal.RequireFromString("5.10")

	ingress, err := proc.CreateIngress(ctx, inventory.IngressCommand{
		ProviderID: f.provider.ID, UserID: f.user.ID, SerialNumber: "F-001", Tax: &tax,
		Lines: []inventory.IngressLine{{ProductID: p.ID, Quantity: 10, Cost: decimal.RequireFromString("2.1234")}},
	})
	require.NoError(t, err)
	sale, err := proc.CreateSale(ctx, inventory.SaleCommand{
		ClientID: f.client.ID, UserID: f.user.ID,
		Lines: []inventory.SaleLine{{ProductID: p.ID, Quantity: 3, Discount: decimal.RequireFromString("0.50")}},
	})
	require.NoError(t, err)

	assert.Equal(t, 7, f.stockOf(t, p.ID))

	got, err := proc.GetMovement(ctx, entity.MovementIngress, ingress.ID)
	require.NoError(t, err)
	assert.True(t, got.Tax.Equal(ingress.Tax))
	assert.True(t, got.Total.Equal(ingress.Total))
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].UnitPrice.Equal(decimal.RequireFromString("2.1234")))
	assert.Equal(t, "Acme", got.Counterparty.Name)

	gotSale, err := proc.GetMovement(ctx, entity.MovementSale, sale.ID)
	require.NoError(t, err)
	assert.True(t, gotSale.Total.Equal(sale.Total))
	require.Len(t, gotSale.Lines, 1)
	assert.True(t, gotSale.Lines[0].UnitPrice.Equal(decimal.RequireFromString("15.5")))
	assert.True(t, gotSale.Lines[0].Discount.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, "445566", gotSale.Counterparty.Document)
}

func TestPostgres_VentaSinStockNoDejaRastro(t *testing.T) {
	f := newDBFixture(t)
	ctx := context.Background()
	p := f.product(t, "10")
	proc := f.processor(time.Second)

	_, err := proc.CreateSale(ctx, inventory.SaleCommand{
		ClientID: f.client.ID, UserID: f.user.ID,
		Lines: []inventory.SaleLine{{ProductID: p.ID, Quantity: 1}},
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 0, f.stockOf(t, p.ID))
	list, err := postgres.NewMovementRepository(f.pool).FindAll(ctx, entity.MovementSale)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPostgres_LockTimeoutConFilaBloqueada(t *testing.T) {
	f := newDBFixture(t)
	ctx := context.Background()
	p := f.product(t, "10")
	runner := postgres.NewTxRunner(f.pool, 100*time.Millisecond)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, func(repos inventory.Repos) error {
			if _, err := repos.Stock.LockForUpdate(ctx, p.ID); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	err := runner.Run(ctx, func(repos inventory.Repos) error {
		_, err := repos.Stock.LockForUpdate(ctx, p.ID)
		return err
	})
	close(release)

	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	require.NoError(t, <-done)
}

func TestPostgres_DeleteOrDisable(t *testing.T) {
	f := newDBFixture(t)
	ctx := context.Background()
	used := f.product(t, "10")
	unused := f.product(t, "20")
	_, err := f.processor(time.Second).CreateIngress(ctx, inventory.IngressCommand{
		ProviderID: f.provider.ID, UserID: f.user.ID,
		Lines: []inventory.IngressLine{{ProductID: used.ID, Quantity: 1, Cost: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)

	disabled, err := f.products.DeleteOrDisable(ctx, used.ID)
	require.NoError(t, err)
	assert.True(t, disabled)
	got, err := f.products.GetByID(ctx, used.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Enabled)

	disabled, err = f.products.DeleteOrDisable(ctx, unused.ID)
	require.NoError(t, err)
	assert.False(t, disabled)
	got, err = f.products.GetByID(ctx, unused.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.products.DeleteOrDisable(ctx, unused.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_DeleteEsperaVentaEnCurso(t *testing.T) {
	f := newDBFixture(t)
	ctx := context.Background()
	p := f.product(t, "10")
	require.NoError(t, f.products.SaveStock(ctx, p.ID, 5))
	runner := postgres.NewTxRunner(f.pool, time.Second)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, func(repos inventory.Repos) error {
			if _, err := repos.Stock.LockForUpdate(ctx, p.ID); err != nil {
				return err
			}
			if err := repos.Stock.SaveStock(ctx, p.ID, 4); err != nil {
				return err
			}
			m := &entity.Movement{Kind: entity.MovementSale, CounterpartyID: f.client.ID, UserID: f.user.ID,
				OccurredAt: time.Now(), Subtotal: decimal.NewFromInt(10), Tax: decimal.Zero, Total: decimal.NewFromInt(10),
				Lines: []entity.MovementLine{{ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(10), Subtotal: decimal.NewFromInt(10)}}}
			if err := repos.Movements.Save(ctx, m); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	result := make(chan bool, 1)
	go func() {
		disabled, err := f.products.DeleteOrDisable(ctx, p.ID)
		assert.NoError(t, err)
		result <- disabled
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	require.NoError(t, <-done)

	assert.True(t, <-result)
	assert.Equal(t, 4, f.stockOf(t, p.ID))
}
