package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/capital/finance/pkg/apperr"
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/domains/auth"
	"github.com/capital/finance/pkg/state"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	AdminKeyHeader  = "X-Admin-Key"

	// CurrentUserKey holds the authenticated entities.User.
	CurrentUserKey = "CurrentUser"
)

func ClaimIp() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(state.CurrentUserIP, c.ClientIP())
		c.Next()
	}
}

// RequestID reuses the caller's X-Request-ID or mints one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(state.RequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Admin gates category writes behind the configured admin key. An empty key
// disables the writes altogether.
func Admin(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			zap.L().Warn("admin key rejected", zap.String("path", c.FullPath()), zap.String("ip", c.ClientIP()))
			c.AbortWithStatusJSON(apperr.KindForbidden.Status(), gin.H{"error": constant.ADMIN_ONLY})
			return
		}
		c.Next()
	}
}

// CheckAuth resolves "Authorization: Bearer <token>" to an active user and
// stores it on the context.
func CheckAuth(s auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(401, gin.H{
				"error":  constant.TOKEN_REQUIRED,
				"detail": constant.TOKEN_FORMAT_HINT,
			})
			return
		}

		authToken := strings.Fields(authHeader)
		if len(authToken) != 2 || authToken[0] != "Bearer" {
			c.AbortWithStatusJSON(401, gin.H{
				"error":  constant.TOKEN_REQUIRED,
				"detail": constant.TOKEN_FORMAT_HINT,
			})
			return
		}

		user, err := s.Authenticate(c, authToken[1])
		if err != nil {
			body := gin.H{"error": constant.INVALID_TOKEN}
			status := 401
			var e *apperr.Error
			if errors.As(err, &e) {
				body["error"] = e.Message
				if e.Detail != "" {
					body["detail"] = e.Detail
				}
				status = e.Kind.Status()
			}
			c.AbortWithStatusJSON(status, body)
			return
		}

		c.Set(state.CurrentUserId, user.ID)
		c.Set(state.CurrentUserEmail, user.Email)
		c.Set(CurrentUserKey, user)
		c.Next()
	}
}
