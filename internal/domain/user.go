package domain

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Image        string    `json:"image"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterInput carries the raw registration payload. Image is the
// decoded source image, not a file path.
type RegisterInput struct {
	Name                 string
	LastName             string
	Email                string
	Phone                string
	Password             string
	PasswordConfirmation string
	Image                []byte
}
