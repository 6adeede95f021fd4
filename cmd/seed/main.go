// seed carga proveedores, clientes y productos desde un CSV de Excel (Windows-1252)
// y crea el usuario administrador (SEED_ADMIN_USERNAME / SEED_ADMIN_PASSWORD).
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
// Sin argumento solo crea el administrador.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/application/auth"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ventas-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("Cargar configuración", err)
	}

	cat := &catalog{}
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			fail("Abrir CSV", err)
		}
		cat, err = parseCatalog(f)
		f.Close()
		if err != nil {
			fail("Leer CSV", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("Conectar a PostgreSQL", err)
	}
	defer pool.Close()

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		return load(ctx, tx, cat, cfg.Seed)
	})
	if err != nil {
		fail("Seed", err)
	}

	fmt.Printf("Seed OK: %d proveedores, %d clientes, %d productos\n",
		len(cat.providers), len(cat.clients), len(cat.products))
}

func load(ctx context.Context, tx pgx.Tx, cat *catalog, seed config.SeedConfig) error {
	providers := postgres.NewProviderRepository(tx)
	for i := range cat.providers {
		if err := providers.Create(ctx, &cat.providers[i]); err != nil {
			return fmt.Errorf("proveedor %q: %w", cat.providers[i].Name, err)
		}
	}
	clients := postgres.NewClientRepository(tx)
	for i := range cat.clients {
		if err := clients.Create(ctx, &cat.clients[i]); err != nil {
			return fmt.Errorf("cliente %q: %w", cat.clients[i].CardID, err)
		}
	}
	products := postgres.NewProductRepository(tx)
	now := time.Now()
	for i := range cat.products {
		cat.products[i].CreatedAt, cat.products[i].UpdatedAt = now, now
		if err := products.Create(ctx, &cat.products[i]); err != nil {
			return fmt.Errorf("producto %q: %w", cat.products[i].Name, err)
		}
	}

	if seed.AdminPassword == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD vacío: no se crea administrador")
		return nil
	}
	users := postgres.NewUserRepository(tx)
	existing, err := users.GetByUsername(ctx, seed.AdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		fmt.Printf("Administrador %q ya existe\n", seed.AdminUsername)
		return nil
	}
	hash, err := auth.HashPassword(seed.AdminPassword)
	if err != nil {
		return err
	}
	return users.Create(ctx, &entity.User{
		Username:     seed.AdminUsername,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		Enabled:      true,
	})
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
