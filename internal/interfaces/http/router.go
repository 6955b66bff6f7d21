package http

import (
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Cartera-api/internal/application/auth"
	"github.com/jhoicas/Cartera-api/internal/application/backup"
	"github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/application/statement"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine       *ledger.Engine
	Reports      *statement.Generator
	Backup       *backup.Service
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
	OverdueLimit int
	// Location zona horaria del negocio para "hoy" y el año en curso.
	Location *time.Location
	Now      func() time.Time
}

// AppConfig opciones del servidor fiber.
type AppConfig struct {
	Name           string
	Logger         zerolog.Logger
	SwaggerEnabled bool
	SwaggerFile    string
}

// NewApp crea la aplicación fiber con middlewares comunes, /health, Swagger y las rutas /api.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(cfg.Logger))
	app.Use(DegradedHeader(deps.Engine))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "Cartera API",
		}))
	}

	app.Get("/health", Health(deps.Engine))
	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	localNow := func() time.Time { return now().In(loc) }
	today := func() entity.Date { return entity.DateOf(localNow()) }

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.Engine, deps.Reports)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
	customers.Get("/:id/statement", customerHandler.Statement)
	customers.Post("/:id/reconcile", customerHandler.Reconcile)

	bills := protected.Group("/bills")
	billHandler := NewBillHandler(deps.Engine)
	bills.Get("/", billHandler.List)
	bills.Post("/", billHandler.Create)
	bills.Get("/:id", billHandler.GetByID)

	payments := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.Engine, today)
	payments.Get("/", paymentHandler.List)
	payments.Post("/", paymentHandler.Create)

	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports, localNow, deps.OverdueLimit)
	reports.Get("/credits", reportHandler.Credits)
	reports.Get("/overdue", reportHandler.Overdue)
	reports.Get("/revenue", reportHandler.Revenue)
	reports.Get("/payments", reportHandler.Payments)
	reports.Get("/payment-rate", reportHandler.PaymentRate)
	reports.Get("/best-month", reportHandler.BestMonth)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/monthly", reportHandler.Monthly)

	backups := protected.Group("/backup")
	backupHandler := NewBackupHandler(deps.Backup)
	backups.Get("/export", backupHandler.Export)
	backups.Post("/import", backupHandler.Import)
}
