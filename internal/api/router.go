package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/api/handlers"
	"github.com/jafarshop/storefront-embed/internal/api/middleware"
	"github.com/jafarshop/storefront-embed/internal/config"
	"github.com/jafarshop/storefront-embed/internal/repository"
	"github.com/jafarshop/storefront-embed/internal/site"
)

// NewRouter creates and configures the Gin router.
// repos may be nil when cart storage is the cookie backend.
func NewRouter(cfg *config.Config, client site.Storefront, repos *repository.Repositories, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	secure := cfg.Environment == "production"

	var storageRepo repository.ClientStorageRepository
	if repos != nil {
		storageRepo = repos.ClientStorage
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Storefront embed",
			"endpoints": []string{
				"GET /health",
				"GET /pages/*path",
				"POST /pages/*path",
				"GET /v1/cart",
				"POST /v1/cart/lines",
				"PATCH /v1/cart/lines/:id",
				"POST /v1/cart/lines/:id/decrement",
				"DELETE /v1/cart/lines/:id",
				"GET /v1/cart/drawer",
				"GET /v1/products/:id",
				"GET /v1/collections/:handle",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Routes that read or write the shopper's cart identifier
	session := []gin.HandlerFunc{
		middleware.SessionMiddleware(secure, logger),
		middleware.CartStorageMiddleware(cfg.CartStorage, storageRepo, secure, logger),
	}

	pages := router.Group("/pages")
	pages.Use(session...)
	{
		pages.GET("/*path", handlers.HandleGetPage(cfg, client, logger))
		pages.POST("/*path", handlers.HandlePostPage(cfg, client, logger))
	}

	v1 := router.Group("/v1")
	{
		cartRoutes := v1.Group("/cart")
		cartRoutes.Use(session...)
		{
			cartRoutes.GET("", handlers.HandleGetCart(client, logger))
			cartRoutes.GET("/drawer", handlers.HandleCartDrawer(cfg, client, logger))
			cartRoutes.POST("/lines", handlers.HandleAddLine(client, logger))
			cartRoutes.PATCH("/lines/:id", handlers.HandleUpdateLine(client, logger))
			cartRoutes.POST("/lines/:id/decrement", handlers.HandleDecrementLine(client, logger))
			cartRoutes.DELETE("/lines/:id", handlers.HandleRemoveLine(client, logger))
		}

		v1.GET("/products/:id", handlers.HandleGetProduct(client, logger))
		v1.GET("/collections/:handle", handlers.HandleGetCollection(cfg, client, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
