package auth

import "github.com/angelmondragon/deliverydesk-backend/internal/users"

// VerifyRequest carries the credentials checked by VerifyCredentials.
type VerifyRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyResponse is returned for valid credentials.
type VerifyResponse struct {
	User *users.UserDTO `json:"user"`
}
