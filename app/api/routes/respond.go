package routes

import (
	"errors"
	"strconv"

	"github.com/capital/finance/pkg/apperr"
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/entities"
	"github.com/capital/finance/pkg/middleware"
	"github.com/capital/finance/pkg/state"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError is the one place service errors become HTTP responses.
// Causes are logged, never rendered; unknown errors only show their text
// when gin runs in debug mode.
func respondError(c *gin.Context, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	status := e.Kind.Status()
	body := gin.H{"error": e.Message}
	if e.Detail != "" {
		body["detail"] = e.Detail
	}

	if status >= 500 {
		zap.L().Error("request failed",
			zap.String("kind", e.Kind.String()),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(state.RequestID)),
			zap.Error(err),
		)
		if gin.Mode() == gin.DebugMode && e.Err != nil {
			body["detail"] = e.Err.Error()
		}
	}

	c.AbortWithStatusJSON(status, body)
}

// bind decodes the JSON body into req and answers 400 when it does not fit.
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(400, gin.H{"error": constant.INVALID_REQUEST, "detail": err.Error()})
		return false
	}
	return true
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperr.Validation(constant.INVALID_ID))
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int, invalid string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, apperr.Validation(invalid))
		return 0, false
	}
	return v, true
}

func currentUser(c *gin.Context) entities.User {
	user, _ := c.MustGet(middleware.CurrentUserKey).(entities.User)
	return user
}
