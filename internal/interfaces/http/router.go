package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Stock-api/internal/application/auth"
	"github.com/jhoicas/Stock-api/internal/application/inventory"
	"github.com/jhoicas/Stock-api/internal/application/usecase"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

// HealthCheck comprueba una dependencia externa (base de datos, broker).
type HealthCheck func(ctx context.Context) error

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger         *inventory.LedgerUseCase
	Transactions   *inventory.TransactionUseCase
	Reconciliation *inventory.ReconciliationUseCase
	ProductUC      *usecase.ProductUseCase
	CategoryUC     *usecase.CategoryUseCase
	LocationUC     *usecase.LocationUseCase
	SupplierUC     *usecase.SupplierUseCase
	TagUC          *usecase.TagUseCase
	RecipeUC       *usecase.RecipeUseCase
	ReportUC       *usecase.ReportUseCase
	UserUC         *usecase.UserUseCase
	AuthUC         *auth.AuthUseCase
	Checks         map[string]HealthCheck
	ServiceName    string
	JWTSecret      string
	Log            *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.ServiceName, deps.Checks))

	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), ActivityLogger(deps.UserUC, deps.Log))

	staff := RequireRole(entity.RoleAdmin, entity.RoleManager)
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Post("/auth/register", adminOnly, authHandler.Register)

	// Usuarios y bitácora
	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/users/me", userHandler.Me)
	protected.Get("/users", adminOnly, userHandler.List)
	protected.Get("/activity-logs", adminOnly, userHandler.Activity)

	// Libro de existencias
	stockHandler := NewStockHandler(deps.Ledger, deps.ReportUC)
	stock := protected.Group("/stock")
	stock.Get("/low", stockHandler.Low)
	stock.Get("/export.xlsx", staff, stockHandler.Export)
	stock.Post("/adjust", staff, stockHandler.Adjust)
	stock.Get("/verify/:productId/:locationId", staff, stockHandler.Verify)
	stock.Get("/product/:productId/total", stockHandler.Total)
	stock.Get("/product/:productId", stockHandler.ByProduct)
	stock.Get("/location/:locationId", stockHandler.ByLocation)
	stock.Get("/:productId/:locationId", stockHandler.Get)
	protected.Get("/movements", stockHandler.Movements)

	// Compras, ventas y traslados
	txHandler := NewTransactionHandler(deps.Transactions)
	protected.Post("/purchases", staff, txHandler.CreatePurchase)
	protected.Get("/purchases", txHandler.ListPurchases)
	protected.Get("/purchases/:id", txHandler.GetPurchase)
	protected.Post("/sales", txHandler.CreateSale)
	protected.Get("/sales", txHandler.ListSales)
	protected.Get("/sales/:id", txHandler.GetSale)
	protected.Post("/transfers", staff, txHandler.CreateTransfer)
	protected.Get("/transfers", txHandler.ListTransfers)
	protected.Get("/transfers/:id", txHandler.GetTransfer)

	// Conteo físico
	sessionHandler := NewSessionHandler(deps.Reconciliation)
	sessions := protected.Group("/inventory-sessions")
	sessions.Post("/", staff, sessionHandler.Open)
	sessions.Get("/", sessionHandler.List)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Post("/:id/lines", staff, sessionHandler.AddLine)
	sessions.Post("/:id/close", staff, sessionHandler.Close)
	sessions.Get("/:id/report.pdf", sessionHandler.Report)
	protected.Put("/inventory-lines/:id/count", staff, sessionHandler.RecordCount)

	// Productos
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.List)
	products.Get("/barcode/:barcode", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", staff, productHandler.Create)
	products.Put("/:id", staff, productHandler.Update)
	products.Delete("/:id", staff, productHandler.Delete)
	products.Post("/:id/tags", staff, productHandler.AddTag)
	products.Delete("/:id/tags/:tagId", staff, productHandler.RemoveTag)

	// Catálogo de referencia
	catalog := NewCatalogHandler(deps.CategoryUC, deps.LocationUC, deps.SupplierUC, deps.TagUC)
	protected.Get("/categories", catalog.ListCategories)
	protected.Get("/categories/:id", catalog.GetCategory)
	protected.Post("/categories", staff, catalog.CreateCategory)
	protected.Put("/categories/:id", staff, catalog.UpdateCategory)
	protected.Delete("/categories/:id", staff, catalog.DeleteCategory)

	protected.Get("/locations", catalog.ListLocations)
	protected.Get("/locations/:id", catalog.GetLocation)
	protected.Post("/locations", adminOnly, catalog.CreateLocation)
	protected.Put("/locations/:id", adminOnly, catalog.UpdateLocation)
	protected.Delete("/locations/:id", adminOnly, catalog.DeleteLocation)

	protected.Get("/suppliers", catalog.ListSuppliers)
	protected.Get("/suppliers/:id", catalog.GetSupplier)
	protected.Post("/suppliers", staff, catalog.CreateSupplier)
	protected.Put("/suppliers/:id", staff, catalog.UpdateSupplier)
	protected.Delete("/suppliers/:id", staff, catalog.DeleteSupplier)

	protected.Get("/tags", catalog.ListTags)
	protected.Post("/tags", staff, catalog.CreateTag)
	protected.Delete("/tags/:id", staff, catalog.DeleteTag)

	// Recetas
	recipeHandler := NewRecipeHandler(deps.RecipeUC)
	recipes := protected.Group("/recipes")
	recipes.Get("/", recipeHandler.List)
	recipes.Get("/product/:productId", recipeHandler.GetByProduct)
	recipes.Get("/:id", recipeHandler.GetByID)
	recipes.Post("/", staff, recipeHandler.Create)
	recipes.Put("/:id", staff, recipeHandler.Update)
	recipes.Delete("/:id", staff, recipeHandler.Delete)
	recipes.Post("/:id/ingredients", staff, recipeHandler.AddIngredient)
	recipes.Delete("/:id/ingredients/:ingredientId", staff, recipeHandler.RemoveIngredient)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := protected.Group("/reports", staff)
	reports.Get("/top-selling", reportHandler.TopSelling)
	reports.Get("/sales-summary", reportHandler.SalesSummary)
	reports.Get("/replenishment", reportHandler.Replenishment)
	reports.Get("/purchase-summary", reportHandler.PurchaseSummary)
	reports.Get("/expiring-batches", reportHandler.ExpiringBatches)
}

// healthHandler responde 200 si todas las comprobaciones pasan y 503 si alguna falla.
func healthHandler(service string, checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		status := fiber.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = fiber.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		state := "ok"
		if status != fiber.StatusOK {
			state = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{"status": state, "service": service, "checks": results})
	}
}
