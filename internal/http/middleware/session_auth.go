package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/probiller/purchase-gateway/internal/platform/logger"
	"github.com/probiller/purchase-gateway/internal/services"
)

// SessionIDKey is the gin context key the verified session id is stored
// under for downstream handlers.
const SessionIDKey = "sessionId"

type SessionAuthMiddleware struct {
	log    *logger.Logger
	tokens services.SessionTokenService
}

func NewSessionAuthMiddleware(log *logger.Logger, tokens services.SessionTokenService) *SessionAuthMiddleware {
	middlewareLog := log.With("middleware", "SessionAuthMiddleware")
	return &SessionAuthMiddleware{log: middlewareLog, tokens: tokens}
}

// RequireSession verifies the bearer token issued at init and pins the
// request to its purchase session.
func (m *SessionAuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		sessionID, err := m.tokens.Verify(tokenString)
		if err != nil {
			m.log.Debug("session token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// SessionID reads the verified session id a RequireSession pass stored.
func SessionID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := c.Get(SessionIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}

func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
