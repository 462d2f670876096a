package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pantry-api/internal/core/auth"
	"pantry-api/internal/core/config"
	"pantry-api/internal/domain"
	"pantry-api/internal/transport/http/ez"
	mdw "pantry-api/internal/transport/http/middleware"
)

// NewAdminEngine 后台端，只监听内网地址；不开 CORS
func NewAdminEngine(cfg *config.Config, l *zap.Logger, jwter *auth.JWTer, reg *Registry) *gin.Engine {
	r := gin.New()

	r.Use(mdw.RequestID())
	r.Use(limits(cfg.App.HTTP, false)...)
	r.Use(
		mdw.SimpleRecovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, domain.RoleAdmin, l))

	reg.MountAdmin(ez.New(admin, l))
	return r
}
