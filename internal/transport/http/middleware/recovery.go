package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "pantry-api/internal/transport/http/response"
)

// SimpleRecovery panic 转 500，堆栈只进日志
func SimpleRecovery(l *zap.Logger) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.String("rid", c.GetString(KeyRequestID)),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				resp.Abort(c, resp.CodeServerError, "internal error")
			}
		}()
		c.Next()
	}
}
