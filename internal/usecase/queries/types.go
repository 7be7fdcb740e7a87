package queries

import (
	"time"

	"github.com/google/uuid"
)

type ClientView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}

// TableView is a dining table, optionally annotated for one window.
type TableView struct {
	ID        int64 `json:"id"`
	Capacity  int   `json:"capacity"`
	Available bool  `json:"available"`
}

type ReservationView struct {
	ID        uuid.UUID `json:"id"`
	TableID   int64     `json:"table_id"`
	ClientID  uuid.UUID `json:"client_id"`
	PartySize int       `json:"party_size"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
}
