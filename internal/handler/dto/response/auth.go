package response

import (
	"restaurant-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	Client      *ClientResponse `json:"client"`
}

type ClientResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

func FromClientView(v *queries.ClientView) *ClientResponse {
	return &ClientResponse{
		ID:    v.ID,
		Email: v.Email,
		Name:  v.Name,
	}
}
