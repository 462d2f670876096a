package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"pantry-api/internal/core/metrics"
	resp "pantry-api/internal/transport/http/response"
)

// Timeout 只设置截止时间，由 gorm/redis 观察 ctx 自行放弃；
// 处理器没来得及写响应时补一个 504
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if c.Writer.Written() || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}
		metrics.Rejected.WithLabelValues("timeout").Inc()
		resp.Abort(c, resp.CodeTimeout, "request timed out")
	}
}
