package main

import (
	"time"

	"dagitim-backend/internal/admin"
	"dagitim-backend/internal/assignment"
	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/cache"
	"dagitim-backend/internal/config"
	"dagitim-backend/internal/customer"
	"dagitim-backend/internal/dashboard"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/inventory"
	"dagitim-backend/internal/logger"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/payment"
	"dagitim-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()
	logger.Init()
	database.Init(cfg)

	// Ürün önbelleği: satış doğrulaması ve fiyat seçimi sık ürün okur.
	// Ürün mutasyonu yapan handler'lar ilgili kaydı düşürür.
	products := cache.New[uint, models.Product](5 * time.Minute)

	app := fiber.New(fiber.Config{
		AppName: "dagitim-backend",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				logger.Log().Errorw("istek hatası", "path", c.Path(), "error", err)
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE",
	}))

	api := app.Group("/api")

	// Açık uçlar
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Buradan sonrası token ister
	api.Use(auth.JWTMiddleware(cfg))
	api.Get("/auth/me", auth.MeHandler())

	// Tüm roller okuyabilir
	api.Get("/products", inventory.ListProductsHandler())
	api.Get("/customers", customer.ListCustomersHandler())
	api.Get("/customers/:id/receivables", customer.CustomerReceivablesHandler())
	api.Get("/assignments", assignment.ListAssignmentsHandler())
	api.Get("/sales", sales.ListSalesHandler())
	api.Get("/receipts", sales.ListReceiptsHandler())

	// Plasiyer: sahada satış ve iade
	repOnly := api.Group("", auth.RequireRole(models.RoleSalesRep))
	repOnly.Post("/sales", sales.CreateSaleHandler(products))
	repOnly.Post("/assignments/returns", assignment.CreateReturnHandler(products))

	// Ofis ve süper admin: depo, zimmet, müşteri, tahsilat
	office := api.Group("", auth.RequireRole(models.RoleOffice, models.RoleSuperAdmin))
	office.Post("/customers", customer.CreateCustomerHandler())
	office.Put("/customers/:id", customer.UpdateCustomerHandler())
	office.Delete("/customers/:id", customer.DeleteCustomerHandler())
	office.Post("/assignments", assignment.CreateAssignmentHandler(products))
	office.Patch("/assignments/:id/status", assignment.UpdateAssignmentStatusHandler(products))
	office.Post("/stock-entries", inventory.CreateStockEntryHandler(products))
	office.Get("/stock-entries", inventory.ListStockEntriesHandler())
	office.Post("/collections", payment.CreateCollectionHandler())
	office.Get("/collections", payment.ListCollectionsHandler())
	office.Get("/dashboard/sales-chart", dashboard.SalesChartHandler())

	// Yalnızca süper admin: ürün tanımları, kullanıcılar, loglar
	adminOnly := api.Group("/admin", auth.RequireRole(models.RoleSuperAdmin))
	adminOnly.Post("/products", inventory.CreateProductHandler(products))
	adminOnly.Put("/products/:id", inventory.UpdateProductHandler(products))
	adminOnly.Delete("/products/:id", inventory.DeleteProductHandler(products))
	adminOnly.Post("/products/bulk-import", inventory.BulkImportProductsHandler())
	adminOnly.Get("/products/bulk-template", inventory.BulkTemplateHandler())
	adminOnly.Post("/users", admin.CreateUserHandler())
	adminOnly.Get("/users", admin.ListUsersHandler())
	adminOnly.Put("/users/:id", admin.UpdateUserHandler())
	adminOnly.Get("/audit-logs", audit.ListAuditLogsHandler())

	logger.Log().Infow("sunucu başlıyor", "port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Log().Fatalw("sunucu başlatılamadı", "error", err)
	}
}
