package request

import (
	"strconv"
	"time"

	"restaurant-booking/internal/domain/reservation"
)

// Fields are optional so that a missing one is rejected as "incomplete"
// rather than as a binding error.
type CreateReservationRequest struct {
	TableID   *int64     `json:"table_id"`
	Start     *time.Time `json:"start"`
	End       *time.Time `json:"end"`
	PartySize *int       `json:"party_size"`
}

func (r CreateReservationRequest) ToDomain() reservation.Request {
	req := reservation.Request{TableID: r.TableID}
	if r.Start != nil {
		req.Start = *r.Start
	}
	if r.End != nil {
		req.End = *r.End
	}
	if r.PartySize != nil {
		req.PartySize = strconv.Itoa(*r.PartySize)
	}
	return req
}

type AvailabilityQuery struct {
	Start time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	End   time.Time `form:"end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

type ListMineQuery struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
