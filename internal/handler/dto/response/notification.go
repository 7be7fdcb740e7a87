package response

import (
	"time"

	domnotif "restaurant-booking/internal/domain/notification"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func FromNotifications(ns []domnotif.Notification) ([]NotificationResponse, error) {
	res := make([]NotificationResponse, 0, len(ns))
	if err := copier.Copy(&res, &ns); err != nil {
		return nil, err
	}
	return res, nil
}
