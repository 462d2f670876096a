package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pantry-api/internal/core/auth"
	"pantry-api/internal/core/metrics"
	resp "pantry-api/internal/transport/http/response"
)

// 上下文键：token 校验通过后写入
const (
	KeyUID    = "uid"
	KeyRole   = "role"
	KeyClaims = "claims"
)

// AuthJWT 校验 Bearer token；解析失败的细节只打 debug 日志，不回给客户端
func AuthJWT(j *auth.JWTer, requireRole string, l *zap.Logger) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		scheme, tok, ok := strings.Cut(ah, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
			metrics.AuthFailures.WithLabelValues("missing_token").Inc()
			resp.Abort(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimSpace(tok))
		if err != nil {
			metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
			l.Debug("token rejected", zap.String("rid", c.GetString(KeyRequestID)), zap.Error(err))
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Abort(c, resp.CodeForbidden, "forbidden")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUID, claims.Subject)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
