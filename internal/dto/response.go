package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/olekhv/shoplift/internal/domain"
)

type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserResponse deliberately has no password field: the stored hash never
// leaves the service.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   int64           `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Image        string          `json:"image,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type ValidationErrorResponse struct {
	Errors map[string]string `json:"errors"`
}

func MapCategoryToResponse(c *domain.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Image:     c.Image,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func MapCategoriesToResponse(categories []*domain.Category) []*CategoryResponse {
	responses := make([]*CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, MapCategoryToResponse(c))
	}
	return responses
}

func MapUserToResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}

func MapUsersToResponse(users []*domain.User) []*UserResponse {
	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, MapUserToResponse(u))
	}
	return responses
}

func MapProductToResponse(p *domain.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		Image:        p.Image,
		CreatedAt:    p.CreatedAt,
	}
}

func MapProductsToResponse(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, MapProductToResponse(p))
	}
	return responses
}
