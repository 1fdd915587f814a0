// internal/router/router.go
package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-api/internal/config"
	"github.com/javajoker/storefront-api/internal/handlers"
	"github.com/javajoker/storefront-api/internal/middleware"
	"github.com/javajoker/storefront-api/internal/services"
	"github.com/javajoker/storefront-api/internal/utils"
)

const version = "1.0.0"

// Initialize wires services and handlers into a gin engine. Background work
// started here, such as rate limiter cleanup, stops when ctx is done.
func Initialize(ctx context.Context, db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	notificationService, err := services.NewNotificationService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize notifications: %w", err)
	}
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return New(ctx, db, cfg, notificationService, storageService), nil
}

// New builds the engine around an explicit notifier and storage backend.
// A nil notifier disables order confirmations.
func New(ctx context.Context, db *gorm.DB, cfg *config.Config, notifier services.OrderNotifier, storageService *services.StorageService) *gin.Engine {
	authService := services.NewAuthService(db, cfg)
	profileService := services.NewProfileService(db)
	categoryService := services.NewCategoryService(db)
	productService := services.NewProductService(db)
	reviewService := services.NewReviewService(db, productService)
	cartService := services.NewCartService(db)
	wishlistService := services.NewWishlistService(db)
	orderService := services.NewOrderService(db, notifier)
	paymentService := services.NewPaymentService(orderService, cfg)
	dashboardService := services.NewDashboardService(db, cartService, wishlistService, orderService)
	exportService := services.NewExportService(productService)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	catalogHandler := handlers.NewCatalogHandler(categoryService, productService, reviewService, cfg.Pagination)
	cartHandler := handlers.NewCartHandler(cartService, cfg.Pagination)
	orderHandler := handlers.NewOrderHandler(orderService, cfg.Pagination)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, cfg.Pagination)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	adminHandler := handlers.NewAdminHandler(adminService, categoryService, productService,
		orderService, storageService, exportService, cfg.Pagination)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware())
	if cfg.RateLimit.Enabled {
		general := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		go general.Cleanup(ctx)
		r.Use(general.Middleware())
	}
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
		})
	})

	// Locally stored uploads
	if !cfg.IsProduction() && cfg.AWS.AccessKeyID == "" {
		r.Static("/uploads", cfg.Storage.LocalPath)
	}

	authRequired := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		if cfg.RateLimit.Enabled && cfg.RateLimit.AuthPerMinute > 0 {
			perMinute := cfg.RateLimit.AuthPerMinute
			authLimiter := middleware.NewRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
			go authLimiter.Cleanup(ctx)
			auth.Use(authLimiter.Middleware())
		}
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
		}

		// Profile routes
		profile := api.Group("/profile", authRequired)
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PUT("", profileHandler.UpdateProfile)
			profile.PATCH("", profileHandler.UpdateProfile)
		}

		// Catalog routes
		categories := api.Group("/categories")
		{
			categories.GET("", catalogHandler.ListCategories)
			categories.GET("/:id", catalogHandler.GetCategory)
		}

		products := api.Group("/products")
		{
			products.GET("", catalogHandler.ListProducts)
			products.GET("/:id", catalogHandler.GetProduct)
			products.GET("/:id/reviews", catalogHandler.ListProductReviews)
		}

		// Cart routes
		cart := api.Group("/cart", authRequired)
		{
			cart.GET("", cartHandler.ListItems)
			cart.POST("/add", cartHandler.AddItem)
			cart.PUT("/:id/update", cartHandler.UpdateItem)
			cart.PATCH("/:id/update", cartHandler.UpdateItem)
			cart.DELETE("/:id/delete", cartHandler.RemoveItem)
			cart.DELETE("/clear", cartHandler.Clear)
		}

		// Order routes
		orders := api.Group("/orders", authRequired)
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/create", orderHandler.CreateOrder)
			orders.POST("/:id/payment-intent", paymentHandler.CreatePaymentIntent)
			orders.POST("/:id/confirm-payment", paymentHandler.ConfirmPayment)
		}

		// Review routes
		api.POST("/reviews/create", authRequired, reviewHandler.CreateReview)

		// Wishlist routes
		wishlist := api.Group("/wishlist", authRequired)
		{
			wishlist.GET("", wishlistHandler.ListItems)
			wishlist.POST("/add", wishlistHandler.AddItem)
			wishlist.DELETE("/:id/delete", wishlistHandler.RemoveItem)
		}

		// Dashboard routes
		api.GET("/dashboard/stats", optionalAuth, dashboardHandler.GetStats)

		// Admin routes
		admin := api.Group("/admin", authRequired, middleware.StaffRequired())
		{
			admin.GET("/stats", adminHandler.GetDashboardStats)

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/status", adminHandler.UpdateUserStatus)
			}

			adminCategories := admin.Group("/categories")
			{
				adminCategories.POST("", adminHandler.CreateCategory)
				adminCategories.PUT("/:id", adminHandler.UpdateCategory)
				adminCategories.DELETE("/:id", adminHandler.DeleteCategory)
			}

			adminProducts := admin.Group("/products")
			{
				adminProducts.GET("/export", adminHandler.ExportProducts)
				adminProducts.POST("", adminHandler.CreateProduct)
				adminProducts.PUT("/:id", adminHandler.UpdateProduct)
				adminProducts.DELETE("/:id", adminHandler.DeleteProduct)
			}

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", adminHandler.GetOrders)
				adminOrders.PUT("/:id/status", adminHandler.UpdateOrderStatus)
			}

			admin.POST("/uploads/images", adminHandler.UploadImage)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		utils.NotFoundResponse(c)
	})

	return r
}
