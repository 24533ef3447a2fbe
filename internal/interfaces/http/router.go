package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/inventario-ledger/internal/application/alerts"
	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *catalog.ProductUseCase
	CategoryUC     *catalog.CategoryUseCase
	MovementUC     *inventory.MovementUseCase
	MovementQuery  *inventory.MovementQueryUseCase
	Replenishment  *inventory.ReplenishmentUseCase
	AlertUC        *alerts.AlertUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	AggregatorUC   *appanalytics.AggregatorUseCase
	ReportUC       *appanalytics.ReportUseCase
	MetricsHandler nethttp.Handler // nil = sin /metrics
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Post("/users", adminOnly, authHandler.CreateUser)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CategoryUC)
	categories := protected.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Post("/", writers, catalogHandler.CreateCategory)
	categories.Get("/:id", catalogHandler.GetCategory)
	units := protected.Group("/units")
	units.Get("/", catalogHandler.ListUnits)
	units.Post("/", writers, catalogHandler.CreateUnit)
	units.Get("/:id", catalogHandler.GetUnit)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", writers, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", writers, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Movimientos de inventario
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.MovementUC, deps.MovementQuery, deps.Replenishment)
	invGroup.Post("/movements", writers, inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/movements/recent", inventoryHandler.ListRecentMovements)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Put("/movements/:id", writers, inventoryHandler.UpdateMovement)
	invGroup.Delete("/movements/:id", adminOnly, inventoryHandler.DeleteMovement)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	// Alertas
	alertGroup := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alertGroup.Get("/", alertHandler.ListAll)
	alertGroup.Get("/unread", alertHandler.ListUnread)
	alertGroup.Get("/unread/count", alertHandler.UnreadCount)
	alertGroup.Get("/critical", alertHandler.ListCritical)
	alertGroup.Get("/incidents", alertHandler.Incidents)
	alertGroup.Patch("/read-all", alertHandler.MarkAllRead)
	alertGroup.Patch("/:id/read", alertHandler.MarkRead)
	alertGroup.Delete("/:id", adminOnly, alertHandler.Delete)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.AggregatorUC)
	dashboard.Get("/metrics", dashboardHandler.GetMetrics)
	dashboard.Get("/movements/daily", dashboardHandler.DailyMovements)
	dashboard.Get("/movements/types", dashboardHandler.MovementTypes)
	dashboard.Get("/movements/last-24h", dashboardHandler.MovementsLast24h)
	dashboard.Get("/stock-evolution", dashboardHandler.StockEvolution)
	dashboard.Get("/categories", dashboardHandler.CategorySummary)
	dashboard.Get("/top-products", dashboardHandler.TopProducts)

	// Reportes
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/inventory", reportHandler.Inventory)
	reports.Get("/inventory/export", reportHandler.Export)
}
