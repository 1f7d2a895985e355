package http

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/domain"
	"github.com/olekhv/shoplift/internal/dto"
)

type AccountHandler struct {
	service domain.AccountService
}

func NewAccountHandler(service domain.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// RegisterRoutes wires the public account endpoints; the authenticated
// listing is registered separately so main can attach the auth
// middleware.
func (h *AccountHandler) RegisterRoutes(engine *ginext.Engine) {
	engine.POST("/accounts/register", h.Register)
	engine.POST("/accounts/login", h.Login)
}

// Register POST /accounts/register
func (h *AccountHandler) Register(c *ginext.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must be valid JSON",
		})
		return
	}

	image, err := req.ImageBytes()
	if err != nil {
		verr := domain.NewValidationError()
		verr.Add("image", "The image must be a base64 encoded string.")
		writeError(c, verr)
		return
	}

	user, err := h.service.Register(c.Request.Context(), domain.RegisterInput{
		Name:                 req.Name,
		LastName:             req.LastName,
		Email:                req.Email,
		Phone:                req.Phone,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		Image:                image,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"user": dto.MapUserToResponse(user)})
}

// Login POST /accounts/login
func (h *AccountHandler) Login(c *ginext.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must be valid JSON",
		})
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// List GET /accounts
func (h *AccountHandler) List(c *ginext.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list accounts")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MapUsersToResponse(users))
}
