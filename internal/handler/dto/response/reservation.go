package response

import (
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID        uuid.UUID `json:"id"`
	TableID   int64     `json:"table_id"`
	ClientID  uuid.UUID `json:"client_id"`
	PartySize int       `json:"party_size"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
	// Replayed is set when an Idempotency-Key matched an earlier request.
	Replayed bool `json:"replayed,omitempty"`
}

// SlotResponse exposes only when a table is taken, not by whom.
type SlotResponse struct {
	ID      uuid.UUID `json:"id"`
	TableID int64     `json:"table_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:        v.ID,
		TableID:   v.TableID,
		ClientID:  v.ClientID,
		PartySize: v.PartySize,
		Start:     v.Start,
		End:       v.End,
		CreatedAt: v.CreatedAt,
	}
}

func FromReservationViews(vs []*queries.ReservationView) []*ReservationResponse {
	res := make([]*ReservationResponse, len(vs))
	for i, v := range vs {
		res[i] = FromReservationView(v)
	}
	return res
}

func FromReservations(rs []reservation.Reservation) []SlotResponse {
	res := make([]SlotResponse, len(rs))
	for i, r := range rs {
		res[i] = SlotResponse{
			ID:      r.ID(),
			TableID: r.TableID(),
			Start:   r.Start(),
			End:     r.End(),
		}
	}
	return res
}
