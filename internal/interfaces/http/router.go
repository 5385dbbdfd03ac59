package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/audit"
	"github.com/jhoicas/Inventario-ledger/internal/application/auth"
	"github.com/jhoicas/Inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/sales"
	"github.com/jhoicas/Inventario-ledger/internal/application/stock"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	CatalogUC        *catalog.UseCase
	StockService     *stock.Service
	RegisterMovement *inventory.RegisterMovementUseCase
	SalesUC          *sales.UseCase
	Auditor          *audit.Auditor
	AuditPDF         audit.ReportPDFGenerator
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.CatalogUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)

	// Stock (protegido; el ajuste directo es operación de administración)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockService, deps.CatalogUC)
	stockGroup.Post("/adjust", RequireRole(entity.RoleAdmin), stockHandler.Adjust)
	stockGroup.Post("/levels", RequireRole(entity.RoleAdmin), stockHandler.Provision)

	// Movimientos de inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)

	// Ventas (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)
	salesGroup.Put("/:id/items", saleHandler.UpdateItems)

	// Auditoría (protegido, solo admin y auditor)
	auditGroup := protected.Group("/audit", RequireRole(entity.RoleAdmin, entity.RoleAuditor))
	auditHandler := NewAuditHandler(deps.Auditor, deps.AuditPDF)
	auditGroup.Get("/reconciliation", auditHandler.Reconciliation)
	auditGroup.Get("/reconciliation/pdf", auditHandler.ReconciliationPDF)
}
