package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pantry-api/internal/domain"
	"pantry-api/internal/service"
	"pantry-api/internal/transport/http/ez"
)

// AdminHandler 管理端：用户列表 / 删除账号
type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

type userListQ struct {
	Offset int    `form:"offset,default=0"  binding:"min=0"`
	Limit  int    `form:"limit,default=20"  binding:"min=0,max=100"`
	Q      string `form:"q"                 binding:"max=100"` // 按 username/email/name 模糊搜
}

type userRow struct {
	UID       string    `json:"uid"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type userListOut struct {
	Total int64     `json:"total"`
	Items []userRow `json:"items"`
}

func (h *AdminHandler) MountAdmin(admin ez.EZ) {
	ez.RegisterAction(admin, ez.Action[userListQ, userListOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *userListQ) (userListOut, error) {
			page, err := h.users.List(c.Request.Context(), in.Offset, in.Limit, in.Q)
			if err != nil {
				return userListOut{}, err
			}
			out := userListOut{Total: page.Total, Items: make([]userRow, 0, len(page.Items))}
			for _, u := range page.Items {
				out.Items = append(out.Items, userRow{
					UID: u.UID, Username: u.Username, Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	ez.RegisterAction(admin, ez.Action[struct{}, gin.H]{
		Method:  http.MethodDelete,
		Path:    "/users/:uid",
		Binder:  ez.BindNone,
		Auth:    true,
		Roles:   []string{domain.RoleAdmin},
		Message: "user deleted",
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			uid := c.Param("uid")
			if uid == "" {
				return nil, ez.BadRequest("missing uid")
			}
			if err := h.users.Delete(c.Request.Context(), uid); err != nil {
				return nil, err
			}
			return gin.H{"uid": uid}, nil
		},
	})
}
