package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/domain"
	"github.com/olekhv/shoplift/internal/dto"
)

type CategoryHandler struct {
	service       domain.CategoryService
	maxUploadSize int64
}

func NewCategoryHandler(service domain.CategoryService, maxUploadSizeMB int) *CategoryHandler {
	return &CategoryHandler{
		service:       service,
		maxUploadSize: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

func (h *CategoryHandler) RegisterRoutes(engine *ginext.Engine) {
	engine.GET("/categories", h.GetAll)
	engine.POST("/categories/create", h.Create)
	engine.GET("/categories/:id", h.GetByID)
	engine.DELETE("/categories/:id", h.Delete)
	engine.POST("/categories/edit/:id", h.Edit)
}

// GetAll GET /categories
func (h *CategoryHandler) GetAll(c *ginext.Context) {
	categories, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list categories")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapCategoriesToResponse(categories))
}

// Create POST /categories/create
func (h *CategoryHandler) Create(c *ginext.Context) {
	name := c.PostForm("name")

	image, err := formImage(c, h.maxUploadSize)
	if err != nil {
		writeError(c, err)
		return
	}

	category, err := h.service.Create(c.Request.Context(), name, image)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapCategoryToResponse(category))
}

// GetByID GET /categories/:id
func (h *CategoryHandler) GetByID(c *ginext.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	category, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapCategoryToResponse(category))
}

// Delete DELETE /categories/:id
func (h *CategoryHandler) Delete(c *ginext.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"message": "Category deleted"})
}

// Edit POST /categories/edit/:id
func (h *CategoryHandler) Edit(c *ginext.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	name := c.PostForm("name")

	image, err := formImage(c, h.maxUploadSize)
	if err != nil {
		writeError(c, err)
		return
	}

	category, err := h.service.Edit(c.Request.Context(), id, name, image)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapCategoryToResponse(category))
}

func (h *CategoryHandler) pathID(c *ginext.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "Category id must be an integer",
		})
		return 0, false
	}
	return id, true
}

// formImage reads the optional multipart "image" field. A missing file
// is not an error here, and neither is a plain urlencoded form without
// any file part; required-ness is the service's call.
func formImage(c *ginext.Context, maxUploadSize int64) ([]byte, error) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		zlog.Logger.Warn().Err(err).Msg("failed to read image from request")
		return nil, fmt.Errorf("%w: read form file: %v", domain.ErrImageDecode, err)
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		verr := domain.NewValidationError()
		verr.Add("image", fmt.Sprintf("The image may not be greater than %d MB.", maxUploadSize/(1024*1024)))
		return nil, verr
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", domain.ErrImageDecode, err)
	}
	return data, nil
}
