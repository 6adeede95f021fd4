package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/ventas-api/docs"
	"github.com/jhoicas/ventas-api/internal/application/auth"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/pricing"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/ventas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ventas-api/internal/interfaces/http"
	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/jhoicas/ventas-api/pkg/logger"
	"github.com/jhoicas/ventas-api/pkg/telemetry"
)

// @title                       Ventas API
// @version                     1.0
// @description                 Ingresos y ventas con stock consistente.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	}, cfg.App.Name)
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Inventory.Storage).
		Dur("lock_timeout", cfg.Inventory.LockTimeout).
		Msg("iniciando aplicación")

	shutdownTracing, err := telemetry.Setup(cfg.App.Name, cfg.App.Env, cfg.Telemetry.Exporter)
	if err != nil {
		log.Fatal().Err(err).Msg("telemetría")
	}

	ctx := context.Background()

	var (
		txRunner  inventory.TxRunner
		movements repository.MovementRepository
		products  repository.ProductRepository
		providers repository.ProviderRepository
		clients   repository.ClientRepository
		users     repository.UserRepository
	)
	switch cfg.Inventory.Storage {
	case config.StorageMemory:
		store := memory.NewStore(cfg.Inventory.LockTimeout)
		txRunner, movements, products, users = store, store.Movements(), store, store.Users()
		providers, clients = store.Providers(), store.Clients()
		if err := seedMemoryAdmin(ctx, users, cfg.Seed); err != nil {
			log.Fatal().Err(err).Msg("usuario administrador en memoria")
		}
		log.Warn().Msg("STORAGE=memory: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool, cfg.Inventory.LockTimeout)
		movements = postgres.NewMovementRepository(pool)
		products = postgres.NewProductRepository(pool)
		providers = postgres.NewProviderRepository(pool)
		clients = postgres.NewClientRepository(pool)
		users = postgres.NewUserRepository(pool)
	}

	engine := pricing.NewEngine(pricing.FlatRate(cfg.Pricing.DefaultTaxRate))
	processor := inventory.NewProcessor(txRunner, movements, engine, log.Component("inventory")).
		WithRetry(inventory.RetryPolicy{
			MaxRetries:      cfg.Inventory.MaxRetries,
			InitialInterval: cfg.Inventory.RetryInterval,
		})

	// PDF: comprobante de ingresos y ventas
	receiptUC := inventory.NewReceiptUseCase(processor, infrapdf.NewMarotoReceiptGenerator(cfg.App.Name))
	productUC := usecase.NewProductUseCase(products)
	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ventas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Inventory.Storage})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Processor:  processor,
		Receipts:   receiptUC,
		ProductUC:  productUC,
		ProviderUC: usecase.NewProviderUseCase(providers),
		ClientUC:   usecase.NewClientUseCase(clients),
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("vaciado de trazas")
	}

	log.Info().Msg("aplicación detenida")
}

// seedMemoryAdmin crea el administrador del store en memoria; sin password configurado no hace nada.
func seedMemoryAdmin(ctx context.Context, users repository.UserRepository, seed config.SeedConfig) error {
	if seed.AdminPassword == "" {
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
