package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"pantry-api/internal/core/auth"
	"pantry-api/internal/core/config"
	"pantry-api/internal/core/server"
	"pantry-api/internal/transport/http/ez"
	mdw "pantry-api/internal/transport/http/middleware"
)

// NewAPIEngine 用户端：/api 前缀，/health 与 /metrics 不鉴权
func NewAPIEngine(cfg *config.Config, l *zap.Logger, jwter *auth.JWTer, reg *Registry) *gin.Engine {
	r := server.NewRouter(l, cfg.CORS)

	// 中间件
	r.Use(mdw.RequestID())
	r.Use(limits(cfg.App.HTTP, true)...)
	r.Use(mdw.Metrics(), mdw.AccessLog(l))

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 前缀
	api := r.Group("/api")

	// 鉴权分组
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, "", l))

	reg.MountAPI(ez.Groups{
		Public: ez.New(api, l),
		Authed: ez.New(authed, l),
	})
	return r
}

// limits 按配置组装限流/并发/体积/超时中间件，值 <=0 的项跳过
func limits(h config.HTTP, perIP bool) []gin.HandlerFunc {
	var out []gin.HandlerFunc
	if h.RateLimitRPS > 0 && h.RateLimitBurst > 0 {
		if perIP {
			out = append(out, mdw.RateLimitPerIP(rate.Limit(h.RateLimitRPS), h.RateLimitBurst))
		} else {
			out = append(out, mdw.RateLimit(rate.Limit(h.RateLimitRPS), h.RateLimitBurst))
		}
	}
	if h.MaxConcurrent > 0 {
		out = append(out, mdw.ConcurrencyLimit(h.MaxConcurrent))
	}
	if h.MaxBodyBytes > 0 {
		out = append(out, mdw.MaxBodyBytes(h.MaxBodyBytes))
	}
	if h.RequestTimeoutSec > 0 {
		out = append(out, mdw.Timeout(time.Duration(h.RequestTimeoutSec)*time.Second))
	}
	return out
}
