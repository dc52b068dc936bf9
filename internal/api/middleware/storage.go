package middleware

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/cart"
	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/internal/repository"
)

const StorageContextKey = "cart_storage"

// CookieStorage keeps client storage in cookies of the current request, one cookie per key
type CookieStorage struct {
	c      *gin.Context
	secure bool
}

func NewCookieStorage(c *gin.Context, secure bool) *CookieStorage {
	return &CookieStorage{c: c, secure: secure}
}

// GetItem returns "" when the cookie is absent
func (s *CookieStorage) GetItem(ctx context.Context, key string) (string, error) {
	value, err := s.c.Cookie(key)
	if stderrors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	return value, err
}

func (s *CookieStorage) SetItem(ctx context.Context, key, value string) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, cookieMaxAge, "/", "", s.secure, true)
	return nil
}

// CartStorageMiddleware selects the client storage backing the cart identifier of this request.
// Server-side backends are keyed by the session id, so SessionMiddleware must run first.
func CartStorageMiddleware(backend domain.StorageBackend, repo repository.ClientStorageRepository, secure bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if backend == domain.StorageCookie || repo == nil {
			c.Set(StorageContextKey, cart.Storage(NewCookieStorage(c, secure)))
			c.Next()
			return
		}

		sessionID, ok := GetSessionFromContext(c)
		if !ok {
			logger.Error("Session missing for server-side cart storage", zap.String("backend", backend.String()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			c.Abort()
			return
		}

		c.Set(StorageContextKey, cart.Storage(repository.NewSessionStorage(repo, sessionID, logger)))
		c.Next()
	}
}

// GetStorageFromContext retrieves the request's client storage from the Gin context
func GetStorageFromContext(c *gin.Context) (cart.Storage, bool) {
	storage, exists := c.Get(StorageContextKey)
	if !exists {
		return nil, false
	}
	s, ok := storage.(cart.Storage)
	return s, ok
}
