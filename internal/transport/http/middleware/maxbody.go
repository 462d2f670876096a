package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pantry-api/internal/core/metrics"
	resp "pantry-api/internal/transport/http/response"
)

// MaxBodyBytes 声明的 Content-Length 超限直接 413；
// 未声明长度的由 MaxBytesReader 在绑定时报 *http.MaxBytesError
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			metrics.Rejected.WithLabelValues("body_size").Inc()
			resp.Abort(c, resp.CodeTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
