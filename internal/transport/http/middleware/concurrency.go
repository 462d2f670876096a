package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"pantry-api/internal/core/metrics"
	resp "pantry-api/internal/transport/http/response"
)

// ConcurrencyLimit 同时处理的请求不超过 n；排队期间客户端断开或超时则 503
func ConcurrencyLimit(n int64) gin.HandlerFunc {
	slots := semaphore.NewWeighted(n)
	return func(c *gin.Context) {
		if err := slots.Acquire(c.Request.Context(), 1); err != nil {
			metrics.Rejected.WithLabelValues("concurrency").Inc()
			resp.Abort(c, resp.CodeUnavailable, "server busy")
			return
		}
		metrics.InFlight.Inc()
		defer func() {
			metrics.InFlight.Dec()
			slots.Release(1)
		}()
		c.Next()
	}
}
