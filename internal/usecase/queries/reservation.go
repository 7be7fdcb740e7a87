package queries

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/queries/mock_reservation.go -package=queriesmock

import (
	"context"
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/pkg/clock"
	"restaurant-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

var ErrReservationNotFound = errs.New("reservation not found")

type ReservationQueries interface {
	// GetByID only returns reservations owned by actor.
	GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*ReservationView, error)
	// GetByIDSystem skips the ownership check; used for idempotent replays.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	// ListUpcoming returns every table's reservations that have not ended
	// before now minus the history window.
	ListUpcoming(ctx context.Context) ([]reservation.Reservation, error)
	// ListByClient pages through the client's reservations in start order.
	// The returned cursor is empty on the last page.
	ListByClient(ctx context.Context, clientID uuid.UUID, page Page) ([]*ReservationView, string, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListEndingAfter(ctx context.Context, after time.Time) ([]reservation.Reservation, error)
	ListOverlapping(ctx context.Context, start, end time.Time) ([]reservation.Reservation, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, endingAfter time.Time, after *Keyset, limit int) ([]reservation.Reservation, error)
}

type reservationQueriesImpl struct {
	store         ReservationReadStore
	clock         clock.Clock
	historyWindow time.Duration
}

func NewReservationQueries(store ReservationReadStore, clk clock.Clock, historyWindow time.Duration) ReservationQueries {
	return &reservationQueriesImpl{store: store, clock: clk, historyWindow: historyWindow}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*ReservationView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	// Someone else's reservation is reported as missing.
	if view.ClientID != actor {
		return nil, ErrReservationNotFound
	}
	return view, nil
}

func (q *reservationQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListUpcoming(ctx context.Context) ([]reservation.Reservation, error) {
	return q.store.ListEndingAfter(ctx, q.cutoff())
}

func (q *reservationQueriesImpl) ListByClient(ctx context.Context, clientID uuid.UUID, page Page) ([]*ReservationView, string, error) {
	after, err := DecodeCursor(page.Cursor)
	if err != nil {
		return nil, "", err
	}
	limit := ValidateLimit(page.Limit)

	// One extra row tells whether another page follows.
	items, err := q.store.ListByClient(ctx, clientID, q.cutoff(), after, limit+1)
	if err != nil {
		return nil, "", err
	}

	var next string
	if len(items) > limit {
		items = items[:limit]
		last := items[limit-1]
		next = EncodeCursor(Keyset{Start: last.Slot().Start(), ID: last.ID()})
	}

	views := make([]*ReservationView, len(items))
	for i, r := range items {
		v, err := ToReservationView(r)
		if err != nil {
			return nil, "", err
		}
		views[i] = v
	}
	return views, next, nil
}

func (q *reservationQueriesImpl) cutoff() time.Time {
	return q.clock.Now().Add(-q.historyWindow)
}

// ToReservationView copies a reservation through its getters.
func ToReservationView(r reservation.Reservation) (*ReservationView, error) {
	var v ReservationView
	if err := copier.Copy(&v, r); err != nil {
		return nil, errs.Wrap(err, "failed to map reservation")
	}
	return &v, nil
}
