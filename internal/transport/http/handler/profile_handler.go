package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pantry-api/internal/domain"
	"pantry-api/internal/service"
	"pantry-api/internal/transport/http/ez"
)

type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileReq struct {
	Phone      *string `json:"phone_number"        binding:"omitempty,max=15"`
	Birthdate  *string `json:"date_of_birth"       binding:"omitempty,datetime=2006-01-02"`
	Address    *string `json:"address"             binding:"omitempty,max=255"`
	PictureURL *string `json:"profile_picture_url" binding:"omitempty,max=255,url"`
	Bio        *string `json:"bio"                 binding:"omitempty,max=500"`
}

func (h *ProfileHandler) MountAPI(g ez.Groups) {
	ez.RegisterAction(g.Authed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.profiles.Me(c.Request.Context(), ez.UID(c))
		},
	})

	ez.RegisterAction(g.Authed, ez.Action[profileReq, *domain.Profile]{
		Method:  http.MethodPut,
		Path:    "/me/profile",
		Binder:  ez.BindJSON,
		Auth:    true,
		Message: "profile updated",
		Handler: func(c *gin.Context, in *profileReq) (*domain.Profile, error) {
			return h.profiles.Update(c.Request.Context(), ez.UID(c), service.ProfileInput{
				Phone:      in.Phone,
				Birthdate:  in.Birthdate,
				Address:    in.Address,
				PictureURL: in.PictureURL,
				Bio:        in.Bio,
			})
		},
	})
}
