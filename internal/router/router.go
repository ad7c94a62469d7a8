package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meshur/storefront-backend/config"
	"github.com/meshur/storefront-backend/internal/app/controller"
	"github.com/meshur/storefront-backend/internal/middleware"
)

// HealthFunc reports extra fields for /health, e.g. registry stats.
type HealthFunc func() gin.H

type Router struct {
	sessionController   *controller.SessionController
	productController   *controller.ProductController
	categoryController  *controller.CategoryController
	brandController     *controller.BrandController
	cartController      *controller.CartController
	favoritesController *controller.FavoritesController
	adminController     *controller.AdminController
	eventsController    *controller.EventsController
	sessionMiddleware   *middleware.SessionMiddleware
	health              HealthFunc
	config              *config.Config
}

func NewRouter(
	sessionController *controller.SessionController,
	productController *controller.ProductController,
	categoryController *controller.CategoryController,
	brandController *controller.BrandController,
	cartController *controller.CartController,
	favoritesController *controller.FavoritesController,
	adminController *controller.AdminController,
	eventsController *controller.EventsController,
	sessionMiddleware *middleware.SessionMiddleware,
	health HealthFunc,
	cfg *config.Config,
) *Router {
	return &Router{
		sessionController:   sessionController,
		productController:   productController,
		categoryController:  categoryController,
		brandController:     brandController,
		cartController:      cartController,
		favoritesController: favoritesController,
		adminController:     adminController,
		eventsController:    eventsController,
		sessionMiddleware:   sessionMiddleware,
		health:              health,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(corsConfig(r.config.CORS.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":  "healthy",
			"message": "Meshur storefront API is running",
		}
		if r.health != nil {
			for k, v := range r.health() {
				body[k] = v
			}
		}
		c.JSON(http.StatusOK, body)
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/session", r.sessionController.IssueSession)

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/featured", r.productController.GetFeaturedProducts)
			products.GET("/best-selling", r.productController.GetBestSellingProducts)
			products.GET("/new-arrivals", r.productController.GetNewArrivals)
			products.GET("/search", r.productController.QuickSearch)
			products.GET("/slugs", r.productController.GetAllProductSlugs)
			products.GET("/id/:id", r.productController.GetProductByID)
			products.GET("/:slug", r.productController.GetProductBySlug)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.GetCategories)
			categories.GET("/featured", r.categoryController.GetFeaturedCategories)
			categories.GET("/slugs", r.categoryController.GetAllCategorySlugs)
			categories.GET("/:slug", r.categoryController.GetCategoryBySlug)
			categories.GET("/:slug/products", r.categoryController.GetCategoryProducts)
		}

		brands := v1.Group("/brands")
		{
			brands.GET("", r.brandController.GetBrands)
			brands.GET("/popular", r.brandController.GetPopularBrands)
			brands.GET("/slugs", r.brandController.GetAllBrandSlugs)
			brands.GET("/:slug", r.brandController.GetBrandBySlug)
		}

		session := v1.Group("")
		session.Use(r.sessionMiddleware.RequireSession())
		{
			session.POST("/session/save", r.sessionController.SaveSession)
			session.GET("/events", r.eventsController.Subscribe)

			cart := session.Group("/cart")
			{
				cart.GET("", r.cartController.GetCart)
				cart.DELETE("", r.cartController.ClearCart)
				cart.POST("/items", r.cartController.AddToCart)
				cart.PUT("/items/:variant_id", r.cartController.UpdateCartItem)
				cart.DELETE("/items/:variant_id", r.cartController.RemoveFromCart)
			}

			favorites := session.Group("/favorites")
			{
				favorites.GET("", r.favoritesController.GetFavorites)
				favorites.POST("", r.favoritesController.AddFavorite)
				favorites.DELETE("", r.favoritesController.ClearFavorites)
				favorites.GET("/:product_id", r.favoritesController.IsFavorite)
				favorites.DELETE("/:product_id", r.favoritesController.RemoveFavorite)
				favorites.POST("/:product_id/toggle", r.favoritesController.ToggleFavorite)
			}
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAPIKey(r.config.Admin.APIKeyHash))
		{
			admin.GET("/catalog/export", r.adminController.ExportCatalog)
			admin.POST("/catalog/reload", r.adminController.ReloadCatalog)
		}
	}

	return router
}

// corsConfig allows the configured origins; "*" allows any origin without
// credentials.
func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.APIKeyHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowedOrigins
	cfg.AllowCredentials = true
	return cfg
}
