package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sharechat/sharechat-server/internal/allowlist"
)

// AllowlistMiddleware rejects requests from addresses outside the allowlist.
// The health endpoint stays reachable so load balancers can probe the server
// regardless of the list's contents.
func AllowlistMiddleware(guard *allowlist.Guard, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}
		if !guard.Allow(c.Request) {
			logger.Warn().
				Str("ip", allowlist.ClientIP(c.Request)).
				Str("path", c.Request.URL.Path).
				Msg("request blocked by allowlist")
			c.Data(http.StatusForbidden, "text/html; charset=utf-8", []byte("<h1>403</h1>"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
