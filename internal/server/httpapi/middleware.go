package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/leavedesk/internal/common"
	"github.com/dmitrijs2005/leavedesk/internal/logging"
	"github.com/dmitrijs2005/leavedesk/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const principalContextKey = "principal"

// requestIDMiddleware tags every request with an id so log lines from one
// request can be correlated.
func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(common.RequestIDHeaderName, id)
		c.Set("request_id", id)
		c.Next()
	}
}

// authMiddleware checks the Bearer token and stores the resulting principal
// in the request context. Requests without a valid token never reach the
// handlers behind it.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		principal, err := auth.PrincipalFromToken(parts[1], s.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(principalContextKey, principal)
		c.Next()
	}
}

// log returns the server logger tagged with the current request id.
func (s *Server) log(c *gin.Context) logging.Logger {
	if id := c.GetString("request_id"); id != "" {
		return s.logger.With("request_id", id)
	}
	return s.logger
}

func principalFromContext(c *gin.Context) (*auth.Principal, bool) {
	v, ok := c.Get(principalContextKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*auth.Principal)
	return principal, ok
}
