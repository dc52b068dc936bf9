package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/api/middleware"
	"github.com/jafarshop/storefront-embed/internal/config"
	"github.com/jafarshop/storefront-embed/internal/dom"
	"github.com/jafarshop/storefront-embed/internal/site"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// PageActionRequest replays one shopper interaction against a page.
// Values set form control values by element id before Click is dispatched.
type PageActionRequest struct {
	Values map[string]string `json:"values"`
	Click  string            `json:"click" binding:"required"`
}

// HandleGetPage handles GET /pages/*path: the host page with cart, product and collection features applied
func HandleGetPage(cfg *config.Config, client site.Storefront, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := composePage(c, cfg, client, logger)
		if !ok {
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(p.HTML()))
	}
}

// HandlePostPage handles POST /pages/*path: compose the page, apply one interaction, return the result.
// The patched page is returned even when the interaction failed.
func HandlePostPage(cfg *config.Config, client site.Storefront, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PageActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		p, ok := composePage(c, cfg, client, logger)
		if !ok {
			return
		}
		p.SetValues(req.Values)
		err := p.Click(c.Request.Context(), req.Click)
		if err != nil {
			c.Header("X-Action-Error", string(errors.KindOf(err)))
		}
		c.Data(statusFor(err), "text/html; charset=utf-8", []byte(p.HTML()))
	}
}

func composePage(c *gin.Context, cfg *config.Config, client site.Storefront, logger *zap.Logger) (*site.Page, bool) {
	file, ok := resolvePage(cfg.Site.Dir, c.Param("path"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return nil, false
	}

	f, err := os.Open(file)
	if err != nil {
		logger.Error("Failed to open page", zap.String("file", file), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		logger.Error("Failed to parse page", zap.String("file", file), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}

	storage, ok := middleware.GetStorageFromContext(c)
	if !ok {
		logger.Error("Client storage missing from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}

	p, err := site.Compose(c.Request.Context(), doc, site.Deps{
		Client:   client,
		Storage:  storage,
		Logger:   logger,
		Locale:   cfg.Storefront.Locale,
		PageSize: cfg.Site.CollectionPageSize,
		PagePath: c.Param("path"),
		OpenCart: c.Query("cart") == "open",
	})
	if err != nil {
		// features degrade independently; the page is still served
		logger.Warn("Page composed with errors", zap.String("path", c.Param("path")), zap.Error(err))
	}
	return p, true
}

// resolvePage maps a request path onto a file under dir. Directories serve index.html,
// extensionless paths fall back to {path}.html.
func resolvePage(dir, requestPath string) (string, bool) {
	clean := path.Clean("/" + requestPath)
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	full := filepath.Join(root, filepath.FromSlash(clean))
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", false
	}

	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		full = filepath.Join(full, "index.html")
		info, err = os.Stat(full)
	}
	if err != nil && filepath.Ext(full) == "" {
		full += ".html"
		info, err = os.Stat(full)
	}
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}
