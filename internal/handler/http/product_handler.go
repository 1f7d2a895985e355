package http

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/wb-go/wbf/ginext"

	"github.com/olekhv/shoplift/internal/domain"
	"github.com/olekhv/shoplift/internal/dto"
)

type ProductHandler struct {
	service       domain.ProductService
	maxUploadSize int64
}

func NewProductHandler(service domain.ProductService, maxUploadSizeMB int) *ProductHandler {
	return &ProductHandler{
		service:       service,
		maxUploadSize: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

func (h *ProductHandler) RegisterRoutes(engine *ginext.Engine) {
	engine.POST("/product/create", h.Create)
	engine.GET("/products", h.List)
}

// Create POST /product/create
func (h *ProductHandler) Create(c *ginext.Context) {
	verr := domain.NewValidationError()

	name := c.PostForm("name")

	var price decimal.Decimal
	if raw := c.PostForm("price"); raw == "" {
		verr.Add("price", "The price field is required.")
	} else {
		var err error
		price, err = decimal.NewFromString(raw)
		if err != nil {
			verr.Add("price", "The price must be a number.")
		}
	}

	var categoryID int64
	if raw := c.PostForm("category_id"); raw != "" {
		var err error
		categoryID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			verr.Add("category_id", "The category_id must be an integer.")
		}
	}

	if verr.HasErrors() {
		writeError(c, verr)
		return
	}

	image, err := formImage(c, h.maxUploadSize)
	if err != nil {
		writeError(c, err)
		return
	}

	product, err := h.service.Create(c.Request.Context(), domain.ProductInput{
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
		Image:      image,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapProductToResponse(product))
}

// List GET /products
func (h *ProductHandler) List(c *ginext.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapProductsToResponse(products))
}
