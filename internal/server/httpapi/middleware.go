package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/ideabank/internal/common"
)

const usernameKey = "username"

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		s.metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(status), elapsed)
		s.logger.Debug(c.Request.Context(), "request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
		)
	}
}

// accessToken requires "Authorization: Bearer <token>" and stores the
// administrator name in the gin context.
func (s *HTTPServer) accessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			s.abort(c, common.ErrorUnauthorized)
			return
		}

		username, err := s.auth.Verify(strings.TrimSpace(token))
		if err != nil {
			s.abort(c, err)
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}
