package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"claims-platform/internal/controllers"
	"claims-platform/internal/listeners"
	"claims-platform/internal/repositories"
	"claims-platform/internal/services"
	"claims-platform/pkg/config"
	"claims-platform/pkg/eventbus"
)

const broadcastSweepBatch = 100

// Engine bundles the long-running dispatch components main needs a handle on
// after route setup.
type Engine struct {
	Coordinator services.BroadcastCoordinatorInterface
}

// InitRoutes wires repositories, services and controllers and mounts the API.
func InitRoutes(e *echo.Echo, pool *pgxpool.Pool, redisClient *redis.Client, bus *eventbus.Bus, cfg *config.Config, logger *zap.Logger) *Engine {
	txManager := repositories.NewTxManager(pool)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	orderRepo := repositories.NewOrderRepository(pool)
	craftsmanRepo := repositories.NewCraftsmanRepository(pool)
	partnerRepo := repositories.NewPartnerRepository(pool)
	ruleRepo := repositories.NewRoutingRuleRepository(pool)
	settingsRepo := repositories.NewAssignmentSettingsRepository(pool)
	offerRepo := repositories.NewBroadcastOfferRepository(pool)
	reportRepo := repositories.NewReportRepository(pool)

	resolver := services.NewSettingsResolver(settingsRepo, cacheRepo, logger,
		cfg.Dispatch.ZipPrefixLength, cfg.Dispatch.SettingsCacheTTL)
	finder := services.NewCandidateFinder(ruleRepo, craftsmanRepo, partnerRepo, logger,
		cfg.Dispatch.ZipPrefixLength, cfg.Dispatch.RuleLimit, cfg.Dispatch.PoolLimit)
	executor := services.NewAssignmentExecutor(orderRepo, logger, cfg.Dispatch.CommitRetryBackoff)
	coordinator := services.NewBroadcastCoordinator(orderRepo, offerRepo, txManager,
		resolver, finder, executor, bus, logger, cfg.Dispatch.BroadcastTTL, broadcastSweepBatch)
	dispatch := services.NewDispatchService(resolver, finder, executor, coordinator, bus, logger)

	orderService := services.NewOrderService(orderRepo, craftsmanRepo, partnerRepo,
		txManager, dispatch, executor, coordinator, bus, logger, cfg.Dispatch.Timeout)
	ruleService := services.NewRoutingRuleService(ruleRepo, craftsmanRepo, txManager, logger)
	settingsService := services.NewAssignmentSettingsService(settingsRepo, cacheRepo, txManager, logger)
	craftsmanService := services.NewCraftsmanService(craftsmanRepo, txManager, logger)
	partnerService := services.NewPartnerService(partnerRepo, txManager, logger)
	reportService := services.NewReportService(reportRepo, logger)
	notificationService := services.NewNotificationService(logger)

	listeners.NewNotificationListener(notificationService).Register(bus)

	apiGroup := e.Group("/api")
	registerOrderRoutes(apiGroup, controllers.NewOrderController(orderService, logger))
	registerDirectoryRoutes(apiGroup,
		controllers.NewCraftsmanController(craftsmanService, logger),
		controllers.NewPartnerController(partnerService, logger))
	registerDispatchRoutes(apiGroup,
		controllers.NewRoutingRuleController(ruleService, logger),
		controllers.NewAssignmentSettingsController(settingsService, logger),
		controllers.NewReportController(reportService, logger))

	return &Engine{Coordinator: coordinator}
}
