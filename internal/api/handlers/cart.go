package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/api/middleware"
	"github.com/jafarshop/storefront-embed/internal/cart"
	"github.com/jafarshop/storefront-embed/internal/config"
	"github.com/jafarshop/storefront-embed/internal/render"
)

// AddLineRequest represents the add-to-cart payload
type AddLineRequest struct {
	MerchandiseID string `json:"merchandise_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
}

type UpdateLineRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// DecrementLineRequest carries the quantity the shopper saw when clicking minus
type DecrementLineRequest struct {
	DisplayedQuantity int `json:"displayed_quantity" binding:"required,min=1"`
}

// storeFor builds the cart store of this request over its client storage
func storeFor(c *gin.Context, client cart.API, logger *zap.Logger) (*cart.Store, bool) {
	storage, ok := middleware.GetStorageFromContext(c)
	if !ok {
		logger.Error("Client storage missing from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return cart.NewStore(c.Request.Context(), client, storage, logger), true
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(client cart.API, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := storeFor(c, client, logger)
		if !ok {
			return
		}
		result, err := store.FetchCart(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// HandleAddLine handles POST /v1/cart/lines, creating the cart on first use
func HandleAddLine(client cart.API, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		store, ok := storeFor(c, client, logger)
		if !ok {
			return
		}
		if _, err := store.AddLine(c.Request.Context(), req.MerchandiseID, req.Quantity); err != nil {
			respondError(c, logger, err)
			return
		}
		respondWithCart(c, store, logger, http.StatusCreated)
	}
}

// HandleUpdateLine handles PATCH /v1/cart/lines/:id
func HandleUpdateLine(client cart.API, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		store, ok := storeFor(c, client, logger)
		if !ok {
			return
		}
		if _, err := store.UpdateLine(c.Request.Context(), c.Param("id"), req.Quantity); err != nil {
			respondError(c, logger, err)
			return
		}
		respondWithCart(c, store, logger, http.StatusOK)
	}
}

// HandleDecrementLine handles POST /v1/cart/lines/:id/decrement
func HandleDecrementLine(client cart.API, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DecrementLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		store, ok := storeFor(c, client, logger)
		if !ok {
			return
		}
		if _, err := store.Decrement(c.Request.Context(), c.Param("id"), req.DisplayedQuantity); err != nil {
			respondError(c, logger, err)
			return
		}
		respondWithCart(c, store, logger, http.StatusOK)
	}
}

// HandleRemoveLine handles DELETE /v1/cart/lines/:id
func HandleRemoveLine(client cart.API, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := storeFor(c, client, logger)
		if !ok {
			return
		}
		if _, err := store.RemoveLine(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, logger, err)
			return
		}
		respondWithCart(c, store, logger, http.StatusOK)
	}
}

// HandleCartDrawer handles GET /v1/cart/drawer, the rendered cart body for partial refreshes
func HandleCartDrawer(cfg *config.Config, client cart.API, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := storeFor(c, client, logger)
		if !ok {
			return
		}
		fragment, err := render.DrawerFragment(c.Request.Context(), store, logger, render.Options{Locale: cfg.Storefront.Locale})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))
	}
}

// respondWithCart re-fetches the cart; mutation payloads are never trusted for display
func respondWithCart(c *gin.Context, store *cart.Store, logger *zap.Logger, status int) {
	result, err := store.FetchCart(c.Request.Context())
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(status, result)
}
