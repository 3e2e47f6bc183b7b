package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stockledger-api/internal/application/analytics"
	"github.com/jhoicas/stockledger-api/internal/application/auth"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/application/usecase"
)

// RoleAdmin rol requerido para eliminar datos maestros.
const RoleAdmin = "ADMIN"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	ProductUC     *usecase.ProductUseCase
	CategoryUC    *usecase.CategoryUseCase
	SupplierUC    *usecase.SupplierUseCase
	Engine        *inventory.MovementEngine
	StockCard     *inventory.StockCardUseCase
	Replenishment *inventory.ReplenishmentUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(RoleAdmin)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Stock movements (protegido)
	movements := api.Group("/stock-movements", requireAuth)
	movementHandler := NewStockMovementHandler(deps.Engine, deps.StockCard)
	movements.Get("/", movementHandler.List)
	movements.Get("/recent", movementHandler.ListRecent)
	movements.Get("/date-range", movementHandler.ListByDateRange)
	movements.Get("/product/:productId", movementHandler.ListByProduct)
	movements.Get("/product/:productId/stock-card", movementHandler.StockCardPDF)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Post("/", movementHandler.Create)

	// Products (protegido)
	products := api.Group("/products", requireAuth)
	productHandler := NewProductHandler(deps.ProductUC, deps.Replenishment)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/replenishment", productHandler.Replenishment)
	products.Get("/sku/:sku", productHandler.GetBySKU)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", productHandler.Create)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Categories (protegido)
	categories := api.Group("/categories", requireAuth)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/active", categoryHandler.ListActive)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", categoryHandler.Create)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Suppliers (protegido)
	suppliers := api.Group("/suppliers", requireAuth)
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/active", supplierHandler.ListActive)
	suppliers.Get("/search", supplierHandler.Search)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)

	// Dashboard (protegido)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/summary", requireAuth, dashboardHandler.GetSummary)
}
