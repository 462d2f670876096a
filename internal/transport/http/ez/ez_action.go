package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pantry-api/internal/core/metrics"
	mdw "pantry-api/internal/transport/http/middleware"
	resp "pantry-api/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	configureValidator()
	return EZ{g: g, log: l}
}

// Group 派生子分组，可附加中间件
func (e EZ) Group(path string, handlers ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, handlers...), log: e.log}
}

// Groups 业务模块挂载时拿到的两个分组
type Groups struct {
	Public EZ // 无需登录
	Authed EZ // 已走 AuthJWT
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// Route 额外挂载的旧路径
type Route struct {
	Method string
	Path   string
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/login"、"/users/:uid"
	Aliases []Route  // 兼容旧客户端的路径
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录（检查 uid）
	Roles   []string // 限定角色（可选）
	Status  int      // 成功状态码，默认 200
	Message string   // 成功文案，默认 OK
	Handler func(c *gin.Context, in *I) (O, error)
}

// UID 当前登录用户的 UID
func UID(c *gin.Context) string { return c.GetString(mdw.KeyUID) }

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			if UID(c) == "" {
				respond(c, e.log, &AErr{Status: http.StatusUnauthorized, Msg: "unauthorized"})
				return
			}
			if len(a.Roles) > 0 && !hasRole(c.GetString(mdw.KeyRole), a.Roles) {
				respond(c, e.log, &AErr{Status: http.StatusForbidden, Msg: "forbidden"})
				return
			}
		}

		// 2) 绑定 + 校验，失败不进入业务
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			respond(c, e.log, err)
			return
		}

		// 3) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			respond(c, e.log, err)
			return
		}
		c.JSON(status, resp.OK(out, a.Message))
	}

	mount(e.g, a.Method, a.Path, h)
	for _, r := range a.Aliases {
		mount(e.g, r.Method, r.Path, h)
	}
}

func mount(g *gin.RouterGroup, method, path string, h gin.HandlerFunc) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		g.GET(path, h)
	case http.MethodPut:
		g.PUT(path, h)
	case http.MethodDelete:
		g.DELETE(path, h)
	default: // 默认 POST
		g.POST(path, h)
	}
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}

func bind(c *gin.Context, b Binder, in any) error {
	var err error
	switch b {
	case BindJSON:
		err = c.ShouldBindJSON(in)
	case BindQuery:
		err = c.ShouldBindQuery(in)
	default: // BindNone: 不绑定
		return nil
	}
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &AErr{Status: http.StatusRequestEntityTooLarge, Msg: "request body too large", Err: err}
	}
	return &AErr{Status: http.StatusUnprocessableEntity, Msg: validationMessage(err), Err: err}
}

// respond 统一错误出口；5xx 只记日志不回显原因
func respond(c *gin.Context, l *zap.Logger, err error) {
	status, msg := FromError(err)
	switch {
	case status == http.StatusGatewayTimeout:
		metrics.Rejected.WithLabelValues("timeout").Inc()
		l.Warn("request deadline exceeded",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
		)
	case status >= http.StatusInternalServerError:
		l.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, resp.Error(status, msg))
}
