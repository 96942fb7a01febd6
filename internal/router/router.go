package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"gymops/internal/config"
	"gymops/internal/handler"
	"gymops/internal/infra"
	"gymops/internal/middleware"
	"gymops/internal/model"
	"gymops/internal/repository"
	"gymops/internal/service"
	"gymops/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, clock infra.Clock, dispatcher *worker.Dispatcher) *gin.Engine {
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
	registerRepo := repository.NewRegisterRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	inscriptionRepo := repository.NewInscriptionRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	pendingRepo := repository.NewPendingPaymentRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(employeeRepo, cfg)
	registerSvc := service.NewRegisterService(registerRepo, clock)
	memberSvc := service.NewMemberService(memberRepo, inscriptionRepo)
	catalogSvc := service.NewCatalogService(catalogRepo)
	productSvc := service.NewProductService(productRepo, rdb, clock)
	saleSvc := service.NewSaleService(saleRepo, memberRepo, catalogRepo, inscriptionRepo,
		productRepo, pendingRepo, employeeRepo, registerSvc, clock, dispatcher)
	installmentSvc := service.NewInstallmentService(pendingRepo, saleRepo, employeeRepo, registerSvc, clock)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	registersH := handler.NewRegisterHandler(registerSvc)
	membersH := handler.NewMemberHandler(memberSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	productsH := handler.NewProductHandler(productSvc)
	salesH := handler.NewSaleHandler(saleSvc)
	installmentsH := handler.NewInstallmentHandler(installmentSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check kiosk — no auth required
	r.GET("/v1/price/:barcode", productsH.PriceCheck)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyStaff := middleware.RequireRole(model.RoleReceptionist, model.RoleManager, model.RoleAdmin)
	managers := middleware.RequireRole(model.RoleManager, model.RoleAdmin)
	admins := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		registers := v1.Group("/registers")
		{
			registers.POST("", admins, registersH.Create)
			registers.GET("", anyStaff, registersH.List)
			registers.POST("/:id/open", anyStaff, registersH.Open)
			registers.POST("/:id/close", anyStaff, registersH.Close)
			registers.POST("/:id/movements", anyStaff, registersH.RecordMovement)
			registers.GET("/:id/snapshot", anyStaff, registersH.CurrentSnapshot)
			registers.GET("/:id/movements", anyStaff, registersH.ListMovements)
			registers.GET("/:id/history", managers, registersH.History)
		}

		sales := v1.Group("/sales", anyStaff)
		{
			sales.POST("/memberships", salesH.SellMembership)
			sales.POST("/products", salesH.SellProducts)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
		}

		installments := v1.Group("/installments")
		{
			installments.POST("/:id/payments", anyStaff, installmentsH.Settle)
			installments.POST("/:id/cancel", managers, installmentsH.Cancel)
			installments.GET("/:id", anyStaff, installmentsH.Get)
		}

		members := v1.Group("/members", anyStaff)
		{
			members.POST("", membersH.Create)
			members.GET("", membersH.List)
			members.GET("/:id", membersH.Get)
			members.PUT("/:id", membersH.Update)
			members.DELETE("/:id", middleware.RequireRole(model.RoleManager, model.RoleAdmin), membersH.Deactivate)
			members.GET("/:id/inscriptions", membersH.Inscriptions)
			members.GET("/:id/installments", installmentsH.ListByMember)
		}

		v1.GET("/products", anyStaff, productsH.List)
		v1.GET("/products/:id", anyStaff, productsH.Get)
		v1.GET("/products/:id/movements", managers, productsH.StockMovements)
		v1.POST("/products/:id/stock", managers, productsH.AdjustStock)
		products := v1.Group("/products", admins)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Deactivate)
		}

		v1.GET("/services", anyStaff, catalogH.ListServices)
		v1.GET("/services/:id", anyStaff, catalogH.GetService)
		services := v1.Group("/services", admins)
		{
			services.POST("", catalogH.CreateService)
			services.PUT("/:id", catalogH.UpdateService)
			services.DELETE("/:id", catalogH.DeactivateService)
		}

		v1.GET("/branches", anyStaff, catalogH.ListBranches)
		v1.POST("/branches", admins, catalogH.CreateBranch)

		employees := v1.Group("/employees", admins)
		{
			employees.POST("", authH.CreateEmployee)
			employees.GET("", authH.ListEmployees)
			employees.PUT("/:id", authH.UpdateEmployee)
			employees.DELETE("/:id", authH.DeactivateEmployee)
			employees.PATCH("/:id/reactivate", authH.ReactivateEmployee)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
