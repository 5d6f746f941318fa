package router

import (
	"time"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/config"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/handler"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/infra"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/middleware"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/repository"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/service"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, marketCB *infra.CircuitBreaker) *gin.Engine {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	marketClient := infra.NewMarketFeedClient(cfg.MarketFeedURL)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	cropRepo := repository.NewCropRepository(db)
	financeRepo := repository.NewFinanceRepository(db)
	listingRepo := repository.NewListingRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(itemRepo, movementRepo, dispatcher, cfg.AlertEmail)
	batchSvc := service.NewBatchService(batchRepo)
	cropSvc := service.NewCropService(cropRepo)
	financeSvc := service.NewFinanceService(financeRepo, dispatcher, cfg.Domain)
	listingSvc := service.NewListingService(listingRepo, marketClient, marketCB)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	batchesH := handler.NewBatchesHandler(batchSvc)
	cropsH := handler.NewCropsHandler(cropSvc)
	financeH := handler.NewFinanceHandler(financeSvc)
	listingsH := handler.NewListingsHandler(listingSvc)
	usersH := handler.NewUsersHandler(authSvc)
	adminH := handler.NewAdminHandler(rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, marketCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Public marketplace — buyers browse without an account
	r.GET("/v1/market/listings", listingsH.Browse)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: worker, manager, admin — declared per-endpoint
		anyRole := middleware.RequireRole("worker", "manager", "admin")
		managerUp := middleware.RequireRole("manager", "admin")
		adminOnly := middleware.RequireRole("admin")

		// Inventory items
		v1.GET("/items", anyRole, inventoryH.ListItems)
		v1.GET("/items/:id", anyRole, inventoryH.GetItem)
		v1.POST("/items", managerUp, inventoryH.CreateItem)
		v1.PUT("/items/:id", managerUp, inventoryH.UpdateItem)
		v1.DELETE("/items/:id", managerUp, inventoryH.DeleteItem)

		// Stock ledger — workers append day to day, amendments need a manager
		v1.POST("/items/:id/movements", anyRole, inventoryH.AppendMovement)
		v1.PUT("/movements/:id", managerUp, inventoryH.AmendMovement)
		v1.GET("/movements", anyRole, inventoryH.ListMovements)
		v1.GET("/items/alerts", anyRole, inventoryH.LowStock)

		// Livestock batches
		v1.GET("/batches", anyRole, batchesH.List)
		v1.GET("/batches/:id", anyRole, batchesH.Get)
		v1.POST("/batches", managerUp, batchesH.Create)
		v1.POST("/batches/:id/close", managerUp, batchesH.Close)
		v1.POST("/batches/:id/logs", anyRole, batchesH.RecordLog)
		v1.GET("/batches/:id/logs", anyRole, batchesH.ListLogs)
		v1.PUT("/logs/:id", managerUp, batchesH.AmendLog)

		// Parcels and crops
		v1.GET("/parcels", anyRole, cropsH.ListParcels)
		v1.POST("/parcels", managerUp, cropsH.CreateParcel)
		v1.PUT("/parcels/:id", managerUp, cropsH.UpdateParcel)
		v1.DELETE("/parcels/:id", managerUp, cropsH.DeleteParcel)
		v1.GET("/crops", anyRole, cropsH.ListCrops)
		v1.GET("/crops/:id", anyRole, cropsH.GetCrop)
		v1.POST("/crops", managerUp, cropsH.CreateCrop)
		v1.PATCH("/crops/:id/status", managerUp, cropsH.UpdateCropStatus)

		// Finance — money stays manager and above
		fin := v1.Group("/finance", managerUp)
		{
			fin.POST("/entries", financeH.Create)
			fin.GET("/entries", financeH.List)
			fin.GET("/entries/:id", financeH.Get)
			fin.DELETE("/entries/:id", financeH.Delete)
			fin.GET("/summary", financeH.Summary)
		}

		// Own marketplace listings
		listings := v1.Group("/listings", managerUp)
		{
			listings.POST("", listingsH.Create)
			listings.GET("", listingsH.ListOwn)
			listings.GET("/:id", listingsH.Get)
			listings.PUT("/:id", listingsH.Update)
			listings.DELETE("/:id", listingsH.Delete)
			listings.POST("/:id/publish", listingsH.Publish)
			listings.POST("/:id/sold", listingsH.MarkSold)
		}

		// User management
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}

		// Ops: requeue dead-lettered background jobs
		v1.POST("/admin/dlq/:queue/requeue", adminOnly, adminH.RequeueDLQ)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
