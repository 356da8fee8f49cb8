package dto

import "github.com/Kenyi45/seventec-reto/model"

type RegisterRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest patches the caller's own record. Nil fields are
// left untouched; FCMToken registers (or clears) the push target.
type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	Bio             *string `json:"bio"`
	Phone           *string `json:"phone"`
	Department      *string `json:"department"`
	ProfileImageURL *string `json:"profile_image_url"`
	FCMToken        *string `json:"fcm_token"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
