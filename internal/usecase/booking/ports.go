package booking

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/booking/mock_ports.go -package=bookingmock

import (
	"context"
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/domain/table"

	"github.com/google/uuid"
)

// Backend is the reservation service as seen from a booking session.
type Backend interface {
	FetchTables(ctx context.Context) ([]table.Table, error)
	FetchReservations(ctx context.Context) ([]reservation.Reservation, error)
	CreateReservation(ctx context.Context, params CreateParams) (*Confirmation, error)
}

type CreateParams struct {
	ClientID  uuid.UUID
	TableID   int64
	PartySize int
	Start     time.Time
	End       time.Time
	// IdempotencyKey stays the same across retries of one unchanged candidate.
	IdempotencyKey uuid.UUID
}

type Confirmation struct {
	ReservationID uuid.UUID
	TableID       int64
	PartySize     int
	Start         time.Time
	End           time.Time
	Replayed      bool
}
