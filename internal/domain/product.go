package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product belongs to at most one category. CategoryID is zero when the
// owning category was deleted (the FK is set null, products survive).
type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   int64           `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Image        string          `json:"image,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ProductInput struct {
	Name       string
	Price      decimal.Decimal
	CategoryID int64
	Image      []byte
}
