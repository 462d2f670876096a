package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pantry-api/internal/service"
	"pantry-api/internal/transport/http/ez"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerReq struct {
	Username string `json:"username" binding:"required,notblank,max=30"`
	Email    string `json:"email"    binding:"required,max=320,email"`
	Password string `json:"password" binding:"required,maxbytes=72"`
	Name     string `json:"name"     binding:"omitempty,max=50"`
}

type registerOut struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type loginReq struct {
	UsernameOrEmail string `json:"username_or_email" binding:"required,notblank,max=320"`
	Password        string `json:"password"          binding:"required,maxbytes=72"`
}

type loginOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) MountAPI(g ez.Groups) {
	ez.RegisterAction(g.Public, ez.Action[registerReq, registerOut]{
		Method:  http.MethodPost,
		Path:    "/register",
		Aliases: []ez.Route{{Method: http.MethodPost, Path: "/create_user"}},
		Binder:  ez.BindJSON,
		Status:  http.StatusCreated,
		Message: "user created",
		Handler: func(c *gin.Context, in *registerReq) (registerOut, error) {
			u, err := h.users.Register(c.Request.Context(), service.RegisterInput{
				Username: in.Username,
				Email:    in.Email,
				Password: in.Password,
				Name:     in.Name,
			})
			if err != nil {
				return registerOut{}, err
			}
			return registerOut{ID: u.UID, Username: u.Username}, nil
		},
	})

	ez.RegisterAction(g.Public, ez.Action[loginReq, loginOut]{
		Method:  http.MethodPost,
		Path:    "/login",
		Binder:  ez.BindJSON,
		Message: "login successfully",
		Handler: func(c *gin.Context, in *loginReq) (loginOut, error) {
			tok, err := h.users.Login(c.Request.Context(), in.UsernameOrEmail, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			return loginOut{AccessToken: tok, TokenType: "bearer"}, nil
		},
	})
}

// Priority 认证接口最先挂载
func (h *AuthHandler) Priority() int { return 10 }
