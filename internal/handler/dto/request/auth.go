package request

import (
	"restaurant-booking/internal/domain/client"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r *LoginRequest) ToDomain() (client.Credentials, error) {
	return client.NewCredentials(r.Email, r.Password)
}
