package response

import (
	"time"

	"github.com/google/uuid"
)

type WaiterCallResponse struct {
	ID        uuid.UUID `json:"id"`
	TableID   int64     `json:"table_id"`
	CreatedAt time.Time `json:"created_at"`
}
