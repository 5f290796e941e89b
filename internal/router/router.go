package router

import (
	"time"

	"wiremon/internal/config"
	"wiremon/internal/handler"
	"wiremon/internal/middleware"
	"wiremon/internal/model"
	"wiremon/internal/repository"
	"wiremon/internal/service"
	"wiremon/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	prodRepo := repository.NewProductionRepository(db)
	configRepo := repository.NewStageConfigRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	qualityRepo := repository.NewQualityRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	catalogSvc := service.NewStageCatalogService(configRepo)
	orderSvc := service.NewOrderService(orderRepo)
	inventorySvc := service.NewInventoryService(inventoryRepo, prodRepo, orderSvc)
	productionSvc := service.NewProductionService(prodRepo, orderRepo, orderSvc, inventorySvc)
	batchSvc := service.NewBatchService(batchRepo, orderRepo, orderSvc, inventorySvc, prodRepo)
	qualitySvc := service.NewQualityService(qualityRepo, batchRepo, orderRepo)
	analyticsSvc := service.NewAnalyticsService(prodRepo, configRepo, orderRepo, batchRepo, cfg.Thresholds())
	reportSvc := service.NewReportService(prodRepo, analyticsSvc, inventorySvc, cfg.ReportStoragePath)

	// Worker dispatcher — handlers that queue async jobs push through it
	dispatcher := worker.NewDispatcher(rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productionH := handler.NewProductionHandler(productionSvc)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)
	stagesH := handler.NewStageConfigHandler(catalogSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	batchesH := handler.NewBatchesHandler(batchSvc)
	qualityH := handler.NewQualityHandler(qualitySvc)
	reportsH := handler.NewReportsHandler(reportSvc, dispatcher)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	admin := middleware.RequireRole(model.RoleAdmin)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleOperator)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", anyRole, authH.Me)

		prod := v1.Group("/production", anyRole)
		{
			prod.POST("/records", productionH.CreateRecord)
			prod.GET("/records", productionH.ListRecords)
			prod.GET("/records/:id", productionH.GetRecord)
			prod.PUT("/records/:id", productionH.UpdateRecord)
			prod.POST("/entry", productionH.CreateEntry)
			prod.GET("/quick-stats", productionH.QuickStats)
		}

		analytics := v1.Group("/analytics", anyRole)
		{
			dashCache := middleware.CacheResponse(rdb, 30*time.Second)
			analytics.GET("/summary", dashCache, analyticsH.DashboardSummary)
			analytics.GET("/process-flow", dashCache, analyticsH.ProcessFlow)
			analytics.GET("/stages/:stage", analyticsH.StageDetail)
			analytics.GET("/timeline", analyticsH.Timeline)
			analytics.GET("/alerts", analyticsH.Alerts)
			analytics.GET("/wip", analyticsH.WIP)
			analytics.GET("/metrics", analyticsH.OverallMetrics)
			analytics.GET("/efficiency", analyticsH.EfficiencyStats)
			analytics.GET("/scrap", analyticsH.ScrapAnalysis)
		}

		v1.GET("/stages/config", anyRole, stagesH.ListConfigs)
		v1.PUT("/stages/config/:stage", admin, stagesH.UpdateConfig)

		inv := v1.Group("/inventory", anyRole)
		{
			inv.GET("", inventoryH.ListStocks)
			inv.GET("/summary", inventoryH.Summary)
			inv.GET("/alerts", inventoryH.Alerts)
			inv.GET("/movements", inventoryH.Movements)
			inv.POST("/update", inventoryH.UpdateInventory)
			inv.POST("/movement", inventoryH.RecordMovement)
			inv.POST("/sync", admin, inventoryH.Sync)
			inv.GET("/:stage", inventoryH.GetStock)
			inv.GET("/:stage/transactions", inventoryH.Transactions)
			inv.PUT("/:stage/levels", admin, inventoryH.UpdateStockLevels)
		}

		orders := v1.Group("/orders", anyRole)
		{
			orders.POST("", ordersH.CreateOrder)
			orders.GET("", ordersH.ListOrders)
			orders.GET("/report", ordersH.StatusReport)
			orders.GET("/:id", ordersH.GetOrder)
			orders.PUT("/:id/status", admin, ordersH.UpdateStatus)
			orders.POST("/:id/dispatch", qualityH.RecordDispatch)
		}

		batches := v1.Group("/batches", anyRole)
		{
			batches.POST("", batchesH.CreateBatch)
			batches.GET("", batchesH.ListBatches)
			batches.GET("/:id", batchesH.GetBatch)
			batches.POST("/:id/move", batchesH.MoveBatch)
			batches.POST("/:id/hold", batchesH.HoldBatch)
			batches.POST("/:id/resume", batchesH.ResumeBatch)
			batches.POST("/:id/quality-check", qualityH.RecordInspection)
		}
		// Quality endpoints that hang off other resources
		v1.GET("/quality/inspections", anyRole, qualityH.ListInspections)
		v1.GET("/dispatches", anyRole, qualityH.ListDispatches)
		v1.PATCH("/dispatches/:id/delivery-status", anyRole, qualityH.UpdateDeliveryStatus)

		reports := v1.Group("/reports", anyRole)
		{
			reports.GET("/production-summary", reportsH.ProductionSummary)
			reports.GET("/production/export", reportsH.ExportXLSX)
			reports.GET("/production/export/pdf", reportsH.ExportPDF)
			reports.POST("/generate", reportsH.Generate)
		}

		users := v1.Group("/users", admin)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
