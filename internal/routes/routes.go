// Package routes defines the API routing configuration.
// It wires repositories, services and handlers together and sets up all HTTP
// routes with their middleware.
package routes

import (
	"fmt"

	"paynet/internal/config"
	"paynet/internal/handlers"
	"paynet/internal/metrics"
	"paynet/internal/middleware"
	"paynet/internal/repositories"
	"paynet/internal/repositories/cache"
	"paynet/internal/services/calculator"
	"paynet/internal/services/commission"
	"paynet/internal/services/hierarchy"
	"paynet/internal/services/operator"
	"paynet/internal/services/permission"
	"paynet/internal/services/scheme"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the shared resources routes are built on. Cache may be
// nil, in which case commission lookups always hit the database. A nil
// Registry uses the Prometheus defaults.
type Dependencies struct {
	DB       *gorm.DB
	Cache    *cache.CacheService
	Config   config.AppConfig
	Logger   *zap.Logger
	Registry *prometheus.Registry
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, deps Dependencies) error {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	h := hierarchy.Default()
	policy, err := permission.NewEnforcer(deps.DB, h, log)
	if err != nil {
		return fmt.Errorf("failed to build permission policy: %w", err)
	}

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	collector := metrics.NewCommissionMetrics(registerer, metrics.Config{Environment: deps.Config.Env})

	schemeService := scheme.NewService(repositories.NewSchemeRepository(deps.DB), h, policy, log)
	operatorService := operator.NewService(repositories.NewOperatorRepository(deps.DB), policy, log)

	calc := calculator.New(calculator.Modifiers{
		ChargePercentage: decimal.NewFromFloat(deps.Config.Commission.ChargePercent),
		GSTPercentage:    decimal.NewFromFloat(deps.Config.Commission.GSTPercent),
		TDSPercentage:    decimal.NewFromFloat(deps.Config.Commission.TDSPercent),
	})
	commissionDeps := commission.Dependencies{
		Repo:       repositories.NewCommissionRepository(deps.DB),
		Schemes:    schemeService,
		Operators:  operatorService,
		Hierarchy:  h,
		Policy:     policy,
		Calculator: calc,
		Metrics:    collector,
		Logger:     log,
		Config:     commission.Config{BulkMaxEntries: deps.Config.Commission.BulkMaxEntries},
	}
	var cacheHealth handlers.CacheHealth
	if deps.Cache != nil {
		commissionDeps.Cache = deps.Cache
		cacheHealth = deps.Cache
	}
	commissionService := commission.NewService(commissionDeps)

	healthHandler := handlers.NewHealthHandler(deps.DB, cacheHealth)
	schemeHandler := handlers.NewSchemeHandler(schemeService, log)
	commissionHandler := handlers.NewCommissionHandler(commissionService, log)
	operatorHandler := handlers.NewOperatorHandler(operatorService, log)

	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	authMiddleware := middleware.NewAuthMiddleware(deps.Config.JWTSecret, h, log)
	api := app.Group("/api/v1", authMiddleware.Handler)

	api.Get("/cache-stats", healthHandler.CacheStats)

	setupSchemeRoutes(api, schemeHandler, commissionHandler)
	setupCommissionRoutes(api, commissionHandler)
	setupOperatorRoutes(api, operatorHandler)
	return nil
}

func setupSchemeRoutes(router fiber.Router, h *handlers.SchemeHandler, ch *handlers.CommissionHandler) {
	schemes := router.Group("/schemes")
	schemes.Post("/", h.CreateScheme)
	schemes.Get("/", h.ListSchemes)
	schemes.Get("/:id", h.GetScheme)
	schemes.Put("/:id", h.UpdateScheme)
	schemes.Patch("/:id/status", h.ToggleStatus)
	schemes.Delete("/:id", h.DeleteScheme)
	schemes.Post("/:id/transfer", h.TransferOwnership)

	schemes.Post("/:id/commissions", ch.CreateCommission)
	schemes.Post("/:id/commissions/bulk", ch.BulkCreate)
	schemes.Put("/:id/commissions/bulk", ch.BulkUpdate)
	schemes.Get("/:id/commissions", ch.ListCommissions)
	schemes.Get("/:id/commissions/export", ch.ExportCSV)
}

func setupCommissionRoutes(router fiber.Router, h *handlers.CommissionHandler) {
	commissions := router.Group("/commissions")
	commissions.Post("/calculate", h.Calculate)
	commissions.Get("/:id", h.GetCommission)
	commissions.Put("/:id", h.UpdateCommission)
	commissions.Delete("/:id", h.DeleteCommission)
	commissions.Post("/:id/slabs", h.CreateSlab)
	commissions.Get("/:id/slabs", h.ListSlabs)

	slabs := router.Group("/slabs")
	slabs.Put("/:id", h.UpdateSlab)
	slabs.Delete("/:id", h.DeleteSlab)
}

func setupOperatorRoutes(router fiber.Router, h *handlers.OperatorHandler) {
	operators := router.Group("/operators")
	operators.Post("/", h.CreateOperator)
	operators.Get("/", h.ListOperators)
	operators.Get("/:id", h.GetOperator)
}
