package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/ventas-api/internal/application/auth"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Processor  *inventory.Processor
	Receipts   *inventory.ReceiptUseCase
	ProductUC  *usecase.ProductUseCase
	ProviderUC *usecase.ProviderUseCase
	ClientUC   *usecase.ClientUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
	Log        zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Products: lectura para todos los roles, escritura solo admin
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Providers: altas solo admin
	providers := protected.Group("/providers")
	providerHandler := NewProviderHandler(deps.ProviderUC, deps.Log)
	providers.Get("/", providerHandler.List)
	providers.Post("/", adminOnly, providerHandler.Create)

	// Clients: el vendedor registra al cliente al momento de vender
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, deps.Log)
	clients.Get("/", clientHandler.List)
	clients.Post("/", RequireRole(entity.RoleAdmin, entity.RoleSeller), clientHandler.Create)

	movementHandler := NewMovementHandler(deps.Processor, deps.Receipts, deps.Log)

	// Ingresses: bodega y admin registran
	ingresses := protected.Group("/ingresses")
	ingresses.Post("/", RequireRole(entity.RoleAdmin, entity.RoleWarehouse), movementHandler.CreateIngress)
	ingresses.Get("/", movementHandler.ListIngresses)
	ingresses.Get("/:id", movementHandler.GetIngress)
	ingresses.Get("/:id/pdf", movementHandler.IngressPDF)

	// Sales: vendedores y admin registran
	sales := protected.Group("/sales")
	sales.Post("/", RequireRole(entity.RoleAdmin, entity.RoleSeller), movementHandler.CreateSale)
	sales.Get("/", movementHandler.ListSales)
	sales.Get("/:id", movementHandler.GetSale)
	sales.Get("/:id/pdf", movementHandler.SalePDF)
}
