package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"business-app-server/internal/auth"
	"business-app-server/internal/config"
	"business-app-server/internal/handlers"
	"business-app-server/internal/metrics"
	"business-app-server/internal/middleware"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, svc *auth.Service, log *zap.SugaredLogger) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc, cfg, log)
	userHandler := handlers.NewUserHandler(db)
	productHandler := handlers.NewProductHandler(db)
	companyHandler := handlers.NewCompanyHandler(db)

	// Every request gets its own tenant evaluation.
	router.Use(middleware.Tenant())

	// Auth endpoints live both at the contract paths and under the API prefix.
	for _, group := range []*gin.RouterGroup{router.Group("/auth"), router.Group("/api/v1/auth")} {
		group.POST("/login", authHandler.Login)
		group.POST("/refresh", authHandler.RefreshToken)
		group.POST("/logout", authHandler.Logout)
		group.GET("/me", middleware.AuthMiddleware(svc, cfg), authHandler.Me)
	}

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		public.GET("/companies/:idOrSlug", companyHandler.GetCompany)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(svc, cfg)) // Apply JWT authentication middleware
	{
		// User management routes, admin-only within the resolved tenant
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RequirePermissions(svc, log, "users.manage"))
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.GET("/:id/companies", userHandler.GetUserCompanies)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
			userRoutes.DELETE("/:id", userHandler.DeleteUser)
		}

		// Product routes, tenant-scoped data access
		productRoutes := private.Group("/products")
		{
			productRoutes.GET("", middleware.RequirePermissions(svc, log, "products.view"), productHandler.GetProducts)
			productRoutes.GET("/:id", middleware.RequirePermissions(svc, log, "products.view"), productHandler.GetProductByID)
			productRoutes.POST("", middleware.RequirePermissions(svc, log, "products.manage"), productHandler.CreateProduct)
			productRoutes.PUT("/:id", middleware.RequirePermissions(svc, log, "products.manage"), productHandler.UpdateProduct)
			productRoutes.DELETE("/:id", middleware.RequirePermissions(svc, log, "products.manage"), productHandler.DeleteProduct)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", metrics.Handler())
}
