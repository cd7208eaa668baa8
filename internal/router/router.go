package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KelvinKitheka/stocker/internal/config"
	"github.com/KelvinKitheka/stocker/internal/handler"
	"github.com/KelvinKitheka/stocker/internal/middleware"
	"github.com/KelvinKitheka/stocker/internal/repository"
	"github.com/KelvinKitheka/stocker/internal/service"
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
	r.Use(middleware.RateLimiter(rdb, "api", cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo)
	ledgerSvc := service.NewLedgerService(batchRepo, productRepo)
	alertSvc := service.NewAlertService(alertRepo, productRepo)
	dashboardSvc := service.NewDashboardService(batchRepo, alertRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	batchesH := handler.NewBatchesHandler(ledgerSvc)
	alertsH := handler.NewAlertsHandler(alertSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", middleware.LoginRateLimiter(rdb, cfg.LoginRatePerMinute), authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(rdb, cfg.LoginRatePerMinute), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes — everything is scoped to the authenticated user
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/with_alerts", productsH.WithAlerts)
			products.GET("/:id", productsH.Get)
			products.PATCH("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		batches := v1.Group("/batches")
		{
			batches.POST("", batchesH.Create)
			batches.GET("", batchesH.List)
			batches.GET("/active", batchesH.Active)
			batches.GET("/depleted_today", batchesH.DepletedToday)
			batches.GET("/:id", batchesH.Get)
			batches.PATCH("/:id", batchesH.Update)
			batches.DELETE("/:id", batchesH.Delete)
			batches.POST("/:id/mark_depleted", batchesH.MarkDepleted)
			batches.GET("/:id/depletions", batchesH.ListDepletions)
		}

		alerts := v1.Group("/alerts")
		{
			alerts.POST("", alertsH.Create)
			alerts.GET("", alertsH.List)
			alerts.GET("/triggered", alertsH.Triggered)
			alerts.GET("/:id", alertsH.Get)
			alerts.PATCH("/:id", alertsH.Update)
			alerts.DELETE("/:id", alertsH.Delete)
		}

		v1.GET("/dashboard", dashboardH.Get)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
