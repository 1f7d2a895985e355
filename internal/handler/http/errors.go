package http

import (
	"errors"
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"github.com/olekhv/shoplift/internal/domain"
	"github.com/olekhv/shoplift/internal/dto"
)

// writeError maps the domain error taxonomy to HTTP. Image failures get
// their own codes instead of disappearing into a generic 500.
func writeError(c *ginext.Context, err error) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{Errors: verr.Fields})
	case errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid credentials",
		})
	case errors.Is(err, domain.ErrImageDecode):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "invalid_image",
			Message: "The uploaded data could not be decoded as an image",
		})
	case errors.Is(err, domain.ErrImageWrite):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "image_write_failed",
			Message: "Failed to store image derivatives",
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "server_error",
			Message: "An internal error occurred",
		})
	}
}
