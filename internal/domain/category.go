package domain

import "time"

// Category groups products in the catalog. Image holds the base name of
// the category's derivative set, e.g. "b1946ac9.webp"; on-disk files are
// named "<width>_<baseName>".
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
