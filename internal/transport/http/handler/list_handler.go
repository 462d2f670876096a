package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pantry-api/internal/domain"
	"pantry-api/internal/service"
	"pantry-api/internal/transport/http/ez"
)

type ListHandler struct {
	lists *service.ListService
	perms *service.PermissionService
}

func NewListHandler(lists *service.ListService, perms *service.PermissionService) *ListHandler {
	return &ListHandler{lists: lists, perms: perms}
}

type createListReq struct {
	ListName    string  `json:"list_name"   binding:"required,notblank,max=100"`
	Description *string `json:"description" binding:"omitempty,max=255"`
}

type listNameReq struct {
	ListName string `json:"list_name" form:"list_name" binding:"required,notblank,max=100"`
}

type permissionReq struct {
	ListName string `json:"list_name" binding:"required,notblank,max=100"`
	Viewer   string `json:"viewer"    binding:"required,notblank,max=30"`
}

type idOut struct {
	ID uint `json:"id"`
}

type listsOut struct {
	Lists []string `json:"lists"`
}

type viewersOut struct {
	Viewers []domain.Viewer `json:"viewers"`
}

type sharedOut struct {
	Lists []domain.SharedList `json:"lists"`
}

func (h *ListHandler) MountAPI(g ez.Groups) {
	ez.RegisterAction(g.Authed, ez.Action[createListReq, idOut]{
		Method:  http.MethodPost,
		Path:    "/lists",
		Aliases: []ez.Route{{Method: http.MethodPost, Path: "/addlist"}},
		Binder:  ez.BindJSON,
		Auth:    true,
		Handler: func(c *gin.Context, in *createListReq) (idOut, error) {
			id, err := h.lists.Create(c.Request.Context(), ez.UID(c), in.ListName, in.Description)
			return idOut{ID: id}, err
		},
	})

	ez.RegisterAction(g.Authed, ez.Action[struct{}, listsOut]{
		Method:  http.MethodGet,
		Path:    "/lists",
		Aliases: []ez.Route{{Method: http.MethodPost, Path: "/list"}},
		Binder:  ez.BindNone,
		Auth:    true,
		Handler: func(c *gin.Context, _ *struct{}) (listsOut, error) {
			names, err := h.lists.Names(c.Request.Context(), ez.UID(c))
			return listsOut{Lists: names}, err
		},
	})

	ez.RegisterAction(g.Authed, ez.Action[listNameReq, gin.H]{
		Method:  http.MethodDelete,
		Path:    "/lists",
		Aliases: []ez.Route{{Method: http.MethodPost, Path: "/deletelist"}},
		Binder:  ez.BindJSON,
		Auth:    true,
		Message: "list deleted",
		Handler: func(c *gin.Context, in *listNameReq) (gin.H, error) {
			if err := h.lists.Delete(c.Request.Context(), ez.UID(c), in.ListName); err != nil {
				return nil, err
			}
			return gin.H{"list_name": in.ListName}, nil
		},
	})

	// 共享
	ez.RegisterAction(g.Authed, ez.Action[permissionReq, gin.H]{
		Method:  http.MethodPost,
		Path:    "/lists/permissions",
		Binder:  ez.BindJSON,
		Auth:    true,
		Message: "permission granted",
		Handler: func(c *gin.Context, in *permissionReq) (gin.H, error) {
			if err := h.perms.Grant(c.Request.Context(), ez.UID(c), in.ListName, in.Viewer); err != nil {
				return nil, err
			}
			return gin.H{"list_name": in.ListName, "viewer": in.Viewer}, nil
		},
	})

	ez.RegisterAction(g.Authed, ez.Action[permissionReq, gin.H]{
		Method:  http.MethodDelete,
		Path:    "/lists/permissions",
		Binder:  ez.BindJSON,
		Auth:    true,
		Message: "permission revoked",
		Handler: func(c *gin.Context, in *permissionReq) (gin.H, error) {
			if err := h.perms.Revoke(c.Request.Context(), ez.UID(c), in.ListName, in.Viewer); err != nil {
				return nil, err
			}
			return gin.H{"list_name": in.ListName, "viewer": in.Viewer}, nil
		},
	})

	ez.RegisterAction(g.Authed, ez.Action[listNameReq, viewersOut]{
		Method: http.MethodGet,
		Path:   "/lists/permissions",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *listNameReq) (viewersOut, error) {
			vs, err := h.perms.Viewers(c.Request.Context(), ez.UID(c), in.ListName)
			return viewersOut{Viewers: vs}, err
		},
	})

	ez.RegisterAction(g.Authed, ez.Action[struct{}, sharedOut]{
		Method: http.MethodGet,
		Path:   "/lists/shared",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (sharedOut, error) {
			out, err := h.perms.SharedWithMe(c.Request.Context(), ez.UID(c))
			return sharedOut{Lists: out}, err
		},
	})
}
