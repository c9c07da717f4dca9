package router

import (
	"time"

	"github.com/venky2821/finalproject/internal/authz"
	"github.com/venky2821/finalproject/internal/config"
	"github.com/venky2821/finalproject/internal/handler"
	"github.com/venky2821/finalproject/internal/infra"
	"github.com/venky2821/finalproject/internal/metrics"
	"github.com/venky2821/finalproject/internal/middleware"
	"github.com/venky2821/finalproject/internal/repository"
	"github.com/venky2821/finalproject/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const productCachePrefix = "product:"

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	mailCB *infra.CircuitBreaker,
	m *metrics.AppMetrics,
	notifier service.Notifier,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.NewRateLimiter(rdb, "api", cfg.RateLimitPerMinute, time.Minute).Handler())
	loginLimit := middleware.NewRateLimiter(rdb, "login", cfg.LoginRateLimitPerMinute, time.Minute).Handler()

	// ── Infrastructure ───────────────────────────────────────────────────────
	files := infra.NewFileStore(cfg.MediaRoot, cfg.PublicBaseURL)
	productCache := infra.NewJSONCache(rdb, productCachePrefix, cfg.ProductCacheTTL)
	az := authz.Default()

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	reportRepo := repository.NewReportRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg, notifier)
	productSvc := service.NewProductService(productRepo, supplierRepo, photoRepo, movementRepo, files, productCache, m)
	supplierSvc := service.NewSupplierService(supplierRepo)
	stockSvc := service.NewStockService(movementRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, movementRepo, userRepo, az, notifier, m)
	batchSvc := service.NewBatchService(batchRepo, productRepo, supplierRepo, time.Now)
	reportSvc := service.NewReportService(reportRepo, batchSvc)
	reviewSvc := service.NewReviewService(reviewRepo, files)
	photoSvc := service.NewPhotoService(photoRepo, files)
	wishlistSvc := service.NewWishlistService(wishlistRepo, productRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	stockH := handler.NewStockHandler(stockSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	batchesH := handler.NewBatchesHandler(batchSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	reviewsH := handler.NewReviewsHandler(reviewSvc)
	photosH := handler.NewPhotosHandler(photoSvc)
	wishlistH := handler.NewWishlistHandler(wishlistSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))
	r.Static("/static", files.Dir("photos"))
	r.Static("/review/static", files.Dir("reviews"))

	r.POST("/token", loginLimit, authH.Login)
	r.POST("/register", authH.Register)
	r.POST("/forgot-password", loginLimit, authH.ForgotPassword)
	r.POST("/change-password", authH.ChangePassword)

	r.GET("/products", productsH.List)
	r.GET("/products/:name", productsH.GetByName)
	r.GET("/suppliers", suppliersH.List)
	r.GET("/suppliers/:id", suppliersH.Get)
	r.GET("/reviews", reviewsH.ListApproved)
	r.GET("/photos", photosH.ListApproved)
	r.GET("/photos/categories", photosH.Categories)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	can := func(c authz.Capability) gin.HandlerFunc { return middleware.RequireCapability(az, c) }

	p := r.Group("", jwtMW)
	{
		p.GET("/auth/me", authH.Me)
		p.GET("/login-activity", authH.LoginActivity)

		// Orders
		p.POST("/reserve", can(authz.ReserveOrders), ordersH.Reserve)
		p.POST("/approve-purchase/:order_id", can(authz.ModerateOrders), ordersH.Approve)
		p.POST("/reject-purchase/:order_id", can(authz.ModerateOrders), ordersH.Reject)
		p.GET("/orders/reserved", can(authz.ModerateOrders), ordersH.ListReserved)
		p.GET("/orders/all", can(authz.ModerateOrders), ordersH.ListAll)
		p.GET("/orders/customer", ordersH.ListMine)
		p.PUT("/orders/:id/cancel", ordersH.Cancel)
		p.POST("/orders/:id/reorder", ordersH.Reorder)

		// Catalog
		catalog := p.Group("", can(authz.WriteCatalog))
		{
			catalog.POST("/products/add", productsH.Create)
			catalog.POST("/products/update-quantity", productsH.UpdateQuantity)
			catalog.POST("/products/upload-image", productsH.UploadImage)
			catalog.POST("/products/:id/upload-images", productsH.UploadImages)
			catalog.POST("/suppliers/add", suppliersH.Create)
		}

		// Inventory: batches and the stock ledger
		p.POST("/add/batch", can(authz.WriteInventory), batchesH.Create)
		p.GET("/stock-movements", can(authz.WriteInventory), stockH.ListMovements)
		p.GET("/batches", batchesH.List)
		p.GET("/batches/expiring-soon", batchesH.ExpiringSoon)
		p.GET("/batches/products/:batch_number", batchesH.ProductsForBatch)
		p.GET("/batches/:product_id", batchesH.ListByProduct)

		// Reviews, photos, wishlist
		p.POST("/reviews/upload", reviewsH.Upload)
		p.POST("/photos/upload", photosH.Upload)
		moderation := p.Group("", can(authz.ModerateContent))
		{
			moderation.GET("/reviews/all", reviewsH.ListAll)
			moderation.PUT("/reviews/:id/approve", reviewsH.Approve)
			moderation.PUT("/reviews/:id/reject", reviewsH.Reject)
			moderation.GET("/photos/all", photosH.ListAll)
			moderation.PUT("/photos/:id/approve", photosH.Approve)
			moderation.PUT("/photos/:id/reject", photosH.Reject)
		}

		wl := p.Group("/wishlist")
		{
			wl.GET("", wishlistH.List)
			wl.POST("/:product_id", wishlistH.Add)
			wl.DELETE("/:product_id", wishlistH.Remove)
		}

		// Reports
		reports := p.Group("", can(authz.ViewReports))
		{
			reports.GET("/top-selling-products", reportsH.TopSelling)
			reports.GET("/reports/top-selling-products", reportsH.TopSelling)
			reports.GET("/reports/stock-turnover", reportsH.StockTurnover)
			reports.GET("/reports/profit-analysis", reportsH.ProfitAnalysis)
			reports.GET("/reports/overview", reportsH.Overview)
			reports.GET("/reports/batch-aging", batchesH.AgingReport)
			reports.GET("/reports/export/:format", reportsH.ExportProfit)
			reports.GET("/reports/:report_type/export/:format", reportsH.Export)
		}
	}

	// Swagger UI outside production only
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
