package server

import (
	"net/http"
	"strings"
	"time"

	"auction-arena/internal/auth"
	handler "auction-arena/services/auction/handler"
	"auction-arena/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// RequireRole verifies the bearer token, checks the role, and stores the
// principal for the handler.
func RequireRole(role, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, auth.ErrInvalidToken, "authorization header required")
			c.Abort()
			return
		}

		principal, err := auth.RequireRole(token, role, secret)
		if err != nil {
			status := http.StatusUnauthorized
			message := "invalid or expired token"
			if err == auth.ErrForbidden {
				status = http.StatusForbidden
				message = role + " access required"
			}
			utils.JSONError(c, status, err, message)
			c.Abort()
			return
		}

		c.Set(handler.PrincipalKey, principal)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
