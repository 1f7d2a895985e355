package dto

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// RegisterRequest is a JSON body; the image arrives inline as a base64
// string (a data-URL prefix is tolerated), not as a multipart file.
type RegisterRequest struct {
	Name                 string `json:"name"`
	LastName             string `json:"lastName"`
	Image                string `json:"image"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ImageBytes decodes the inline image payload.
func (r *RegisterRequest) ImageBytes() ([]byte, error) {
	raw := r.Image
	if raw == "" {
		return nil, nil
	}
	if idx := strings.Index(raw, ";base64,"); idx >= 0 {
		raw = raw[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode base64 image: %w", err)
	}
	return data, nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
