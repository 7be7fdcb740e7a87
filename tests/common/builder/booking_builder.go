//go:build unit || e2e

package builder

import (
	"strconv"
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/domain/table"
	reqdto "restaurant-booking/internal/handler/dto/request"
	"restaurant-booking/internal/pkg/ptr"
	"restaurant-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

// BaseTime is a fixed Paris afternoon used as "now" by unit tests.
var BaseTime = time.Date(2026, 3, 14, 10, 0, 0, 0, time.FixedZone("CET", 3600))

func MustTable(id int64, capacity int) table.Table {
	t, err := table.New(id, capacity)
	if err != nil {
		panic(err)
	}
	return t
}

func MustSlot(start, end time.Time) reservation.TimeSlot {
	ts, err := reservation.NewTimeSlot(start, end)
	if err != nil {
		panic(err)
	}
	return ts
}

func ExistingReservation(tableID int64, start, end time.Time) reservation.Reservation {
	return reservation.Reconstruct(uuid.New(), tableID, uuid.New(), MustSlot(start, end), 2, start.Add(-24*time.Hour))
}

type BookingRequestBuilder struct {
	TableID   *int64
	Start     time.Time
	End       time.Time
	PartySize string
}

// NewBookingRequestBuilder starts from a request valid against a 6-seat table 1 at BaseTime.
func NewBookingRequestBuilder() *BookingRequestBuilder {
	return &BookingRequestBuilder{
		TableID:   ptr.Of(int64(1)),
		Start:     BaseTime.Add(4 * time.Hour),
		End:       BaseTime.Add(6 * time.Hour),
		PartySize: "5",
	}
}

func (b *BookingRequestBuilder) With(mutate func(*BookingRequestBuilder)) *BookingRequestBuilder {
	mutate(b)
	return b
}

func (b *BookingRequestBuilder) WithTable(id int64) *BookingRequestBuilder {
	b.TableID = ptr.Of(id)
	return b
}

func (b *BookingRequestBuilder) WithoutTable() *BookingRequestBuilder {
	b.TableID = nil
	return b
}

func (b *BookingRequestBuilder) WithWindow(start, end time.Time) *BookingRequestBuilder {
	b.Start = start
	b.End = end
	return b
}

func (b *BookingRequestBuilder) WithPartySize(s string) *BookingRequestBuilder {
	b.PartySize = s
	return b
}

func (b *BookingRequestBuilder) Build() reservation.Request {
	return reservation.Request{
		TableID:   b.TableID,
		Start:     b.Start,
		End:       b.End,
		PartySize: b.PartySize,
	}
}

// BuildCreateRequestDTO panics on a non-numeric party size; use Build for those cases.
func (b *BookingRequestBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	req := reqdto.CreateReservationRequest{TableID: b.TableID}
	if !b.Start.IsZero() {
		req.Start = ptr.Of(b.Start)
	}
	if !b.End.IsZero() {
		req.End = ptr.Of(b.End)
	}
	if b.PartySize != "" {
		n, err := strconv.Atoi(b.PartySize)
		if err != nil {
			panic(err)
		}
		req.PartySize = ptr.Of(n)
	}
	return req
}

// BuildView is the stored form of the request, as the read side returns it.
func (b *BookingRequestBuilder) BuildView(clientID uuid.UUID) *queries.ReservationView {
	n, _ := strconv.Atoi(b.PartySize)
	return &queries.ReservationView{
		ID:        uuid.New(),
		TableID:   *b.TableID,
		ClientID:  clientID,
		PartySize: n,
		Start:     b.Start,
		End:       b.End,
		CreatedAt: BaseTime,
	}
}
