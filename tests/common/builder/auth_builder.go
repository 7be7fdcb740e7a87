//go:build unit || e2e

package builder

import (
	reqdto "restaurant-booking/internal/handler/dto/request"
	"restaurant-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type AuthBuilder struct {
	Email    string
	Password string
}

func NewAuthBuilder() *AuthBuilder {
	return &AuthBuilder{
		Email:    "guest@example.com",
		Password: "password123",
	}
}

func (a *AuthBuilder) BuildDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{
		Email:    a.Email,
		Password: a.Password,
	}
}

type ClientBuilder struct {
	ID       uuid.UUID
	Email    string
	Name     string
	IsActive bool
}

func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{
		ID:       uuid.New(),
		Email:    "guest@example.com",
		Name:     "Camille Martin",
		IsActive: true,
	}
}

func (b *ClientBuilder) AsInactive() *ClientBuilder {
	b.IsActive = false
	return b
}

func (b *ClientBuilder) BuildView() *queries.ClientView {
	return &queries.ClientView{
		ID:       b.ID,
		Email:    b.Email,
		Name:     b.Name,
		IsActive: b.IsActive,
	}
}
