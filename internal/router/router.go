package router

import (
	"time"

	"korecatalog/internal/config"
	"korecatalog/internal/handler"
	"korecatalog/internal/middleware"
	"korecatalog/internal/repository"
	"korecatalog/internal/service"
	"korecatalog/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	historyRepo := repository.NewPriceHistoryRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dashboardTTL := time.Duration(cfg.DashboardCacheTTLSeconds) * time.Second
	catalogTTL := time.Duration(cfg.CatalogCacheTTLSeconds) * time.Second

	categorySvc := service.NewCategoryService(categoryRepo)
	authSvc := service.NewAuthService(userRepo, categorySvc, cfg)
	profileSvc := service.NewProfileService(userRepo)
	historySvc := service.NewPriceHistoryService(historyRepo, productRepo, rdb, dashboardTTL)
	productSvc := service.NewProductService(productRepo, categoryRepo, movementRepo, historySvc, dispatcher)
	ledgerSvc := service.NewLedgerService(productRepo, movementRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	profileH := handler.NewProfileHandler(profileSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc, ledgerSvc, historySvc)
	movementsH := handler.NewMovementsHandler(ledgerSvc)
	historyH := handler.NewPriceHistoryHandler(historySvc)
	catalogH := handler.NewCatalogHandler(productRepo, rdb, catalogTTL)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", middleware.AuthRateLimiter(), authH.Register)
		auth.POST("/login", middleware.AuthRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Public catalog — read-only, no auth required
	catalog := r.Group("/v1/catalog")
	{
		catalog.GET("", catalogH.List)
		catalog.GET("/:id", catalogH.Get)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		profile := v1.Group("/profile")
		{
			profile.GET("", profileH.Get)
			profile.PUT("", profileH.Update)
			profile.POST("/theme/toggle", profileH.ToggleTheme)
			profile.POST("/view-mode", profileH.SetViewMode)
		}

		categories := v1.Group("/categories")
		{
			categories.POST("", categoriesH.Create)
			categories.GET("", categoriesH.List)
			categories.GET("/:id", categoriesH.Get)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
			categories.POST("/:id/duplicate", categoriesH.Duplicate)
		}

		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)

			products.POST("/:id/movements", movementsH.Apply)
			products.GET("/:id/price-history", historyH.ListByProduct)
		}

		movements := v1.Group("/movements")
		{
			movements.GET("", movementsH.List)
			movements.GET("/summary", movementsH.Summary)
			movements.GET("/export.pdf", movementsH.ExportPDF)
		}

		v1.GET("/price-history/dashboard", historyH.Dashboard)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
