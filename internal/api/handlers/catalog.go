package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/config"
	"github.com/jafarshop/storefront-embed/internal/page"
)

const maxCollectionLimit = 250

// HandleGetProduct handles GET /v1/products/:id (numeric or global id)
func HandleGetProduct(source page.ProductSource, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := source.ProductByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// HandleGetCollection handles GET /v1/collections/:handle?limit=N
func HandleGetCollection(cfg *config.Config, source page.CollectionSource, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cfg.Site.CollectionPageSize
		if l := c.Query("limit"); l != "" {
			if n, err := strconv.Atoi(l); err == nil && n >= 1 && n <= maxCollectionLimit {
				limit = n
			}
		}

		handle := c.Param("handle")
		products, err := source.CollectionProducts(c.Request.Context(), handle, limit)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		logger.Debug("Collection served", zap.String("handle", handle), zap.Int("count", len(products)))
		c.JSON(http.StatusOK, gin.H{
			"handle": handle,
			"data":   products,
		})
	}
}
