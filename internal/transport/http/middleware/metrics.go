package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pantry-api/internal/core/metrics"
)

// 404 等没有路由模板的请求共用一个标签
const unmatchedRoute = "unmatched"

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		metrics.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(route, method).Observe(time.Since(began).Seconds())
	}
}
