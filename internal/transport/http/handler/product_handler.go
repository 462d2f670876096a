package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pantry-api/internal/domain"
	"pantry-api/internal/service"
	"pantry-api/internal/transport/http/ez"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type createProductReq struct {
	ListName       string  `json:"list_name"       binding:"required,notblank,max=100"`
	ProductName    string  `json:"product_name"    binding:"required,notblank,max=100"`
	ProductBarcode string  `json:"product_barcode" binding:"required,notblank,max=13"`
	ExpiryDate     string  `json:"expiry_date"     binding:"required,datetime=2006-01-02"`
	Description    *string `json:"description"     binding:"omitempty,max=255"`
}

type createProductOut struct {
	ID              uint   `json:"id"`
	ProductName     string `json:"product_name"`
	ProductImageURL string `json:"product_image_url"`
	ExpiryDate      string `json:"expiry_date"`
}

type deleteProductReq struct {
	ID uint `json:"id" binding:"required"`
}

type expiringQuery struct {
	Days int `form:"days,default=7" binding:"min=0,max=365"`
}

type productsOut struct {
	Products []domain.ProductRow `json:"products"`
}

func (h *ProductHandler) MountAPI(g ez.Groups) {
	ez.RegisterAction(g.Authed, ez.Action[createProductReq, createProductOut]{
		Method:  http.MethodPost,
		Path:    "/products",
		Aliases: []ez.Route{{Method: http.MethodPost, Path: "/create_product"}},
		Binder:  ez.BindJSON,
		Auth:    true,
		Message: "product created",
		Handler: func(c *gin.Context, in *createProductReq) (createProductOut, error) {
			p, err := h.products.Create(c.Request.Context(), ez.UID(c), service.CreateProductInput{
				ListName:    in.ListName,
				Name:        in.ProductName,
				Barcode:     in.ProductBarcode,
				ExpiryDate:  in.ExpiryDate,
				Description: in.Description,
			})
			if err != nil {
				return createProductOut{}, err
			}
			return createProductOut{ID: p.ID, ProductName: p.Name, ProductImageURL: p.ImageURL, ExpiryDate: p.ExpiryDate}, nil
		},
	})

	ez.RegisterAction(g.Authed, ez.Action[listNameReq, productsOut]{
		Method:  http.MethodPost,
		Path:    "/products/query",
		Aliases: []ez.Route{{Method: http.MethodPost, Path: "/get_product"}},
		Binder:  ez.BindJSON,
		Auth:    true,
		Handler: func(c *gin.Context, in *listNameReq) (productsOut, error) {
			rows, err := h.products.ByList(c.Request.Context(), ez.UID(c), in.ListName)
			return productsOut{Products: rows}, err
		},
	})

	ez.RegisterAction(g.Authed, ez.Action[expiringQuery, productsOut]{
		Method: http.MethodGet,
		Path:   "/products/expiring",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *expiringQuery) (productsOut, error) {
			rows, err := h.products.Expiring(c.Request.Context(), ez.UID(c), in.Days)
			return productsOut{Products: rows}, err
		},
	})

	ez.RegisterAction(g.Authed, ez.Action[deleteProductReq, idOut]{
		Method:  http.MethodDelete,
		Path:    "/products",
		Aliases: []ez.Route{{Method: http.MethodPost, Path: "/delete_product"}},
		Binder:  ez.BindJSON,
		Auth:    true,
		Message: "product deleted",
		Handler: func(c *gin.Context, in *deleteProductReq) (idOut, error) {
			if err := h.products.Delete(c.Request.Context(), ez.UID(c), in.ID); err != nil {
				return idOut{}, err
			}
			return idOut{ID: in.ID}, nil
		},
	})
}
