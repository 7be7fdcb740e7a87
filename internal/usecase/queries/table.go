package queries

//go:generate mockgen -source=table.go -destination=../../../tests/mock/queries/mock_table.go -package=queriesmock

import (
	"context"
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/domain/table"
	"restaurant-booking/internal/pkg/errs"

	"github.com/jinzhu/copier"
)

var ErrInvalidWindow = errs.New("start must be before end")

type TableQueries interface {
	List(ctx context.Context) ([]TableView, error)
	// Availability marks each table busy or free for [start, end).
	Availability(ctx context.Context, start, end time.Time) ([]TableView, error)
}

type TableReadStore interface {
	List(ctx context.Context) ([]table.Table, error)
}

type tableQueriesImpl struct {
	tables       TableReadStore
	reservations ReservationReadStore
}

func NewTableQueries(tables TableReadStore, reservations ReservationReadStore) TableQueries {
	return &tableQueriesImpl{tables: tables, reservations: reservations}
}

func (q *tableQueriesImpl) List(ctx context.Context) ([]TableView, error) {
	tables, err := q.tables.List(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list tables")
	}
	return toTableViews(table.FreshAvailability(tables))
}

func (q *tableQueriesImpl) Availability(ctx context.Context, start, end time.Time) ([]TableView, error) {
	if !start.Before(end) {
		return nil, ErrInvalidWindow
	}

	tables, err := q.tables.List(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list tables")
	}
	overlapping, err := q.reservations.ListOverlapping(ctx, start, end)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list reservations")
	}

	annotated := reservation.ComputeAvailability(table.FreshAvailability(tables), overlapping, reservation.Window{
		Start: start,
		End:   end,
	})
	return toTableViews(annotated)
}

func toTableViews(items []table.Availability) ([]TableView, error) {
	views := make([]TableView, len(items))
	for i, a := range items {
		// copier reads ID and Capacity through the Table getters.
		if err := copier.Copy(&views[i], a.Table); err != nil {
			return nil, errs.Wrap(err, "failed to map table")
		}
		views[i].Available = a.Available
	}
	return views, nil
}
