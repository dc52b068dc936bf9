package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SessionCookie     = "sf_session"
	SessionContextKey = "session_id"

	// cookies outlive the browser session, like localStorage
	cookieMaxAge = 30 * 24 * 60 * 60
)

// SessionMiddleware gives every browser a stable session id in the sf_session cookie
func SessionMiddleware(secure bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err == nil {
			if _, parseErr := uuid.Parse(sessionID); parseErr != nil {
				logger.Debug("Discarding malformed session cookie", zap.String("value", sessionID))
				err = parseErr
			}
		}
		if err != nil {
			sessionID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sessionID, cookieMaxAge, "/", "", secure, true)
		}

		c.Set(SessionContextKey, sessionID)
		c.Next()
	}
}

// GetSessionFromContext retrieves the session id from the Gin context
func GetSessionFromContext(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(SessionContextKey)
	if !exists {
		return "", false
	}
	s, ok := sessionID.(string)
	return s, ok
}
