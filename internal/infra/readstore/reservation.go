package readstore

import (
	"context"
	"log/slog"
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/infra/db"
	"restaurant-booking/internal/pkg/pgconv"
	"restaurant-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationColumns = `id, table_id, client_id, party_size, slot, created_at`

const (
	findReservationByIDSQL = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = $1`

	listReservationsEndingAfterSQL = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE upper(slot) > $1
		ORDER BY lower(slot), table_id`

	listOverlappingReservationsSQL = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE slot && $1
		ORDER BY table_id, lower(slot)`

	listReservationsByClientSQL = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE client_id = $1 AND upper(slot) > $2
		  AND ($3::timestamptz IS NULL OR (lower(slot), id) > ($3::timestamptz, $4::uuid))
		ORDER BY lower(slot), id
		LIMIT $5`
)

type ReservationReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewReservationReadStore(db db.DBTX, logger *slog.Logger) *ReservationReadStore {
	return &ReservationReadStore{db: db, logger: logger}
}

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	rows, err := s.db.Query(ctx, findReservationByIDSQL, id)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to find reservation", err)
	}
	res, err := pgx.CollectExactlyOneRow(rows, ScanReservation)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to find reservation", err)
	}
	return queries.ToReservationView(res)
}

func (s *ReservationReadStore) ListEndingAfter(ctx context.Context, after time.Time) ([]reservation.Reservation, error) {
	return s.list(ctx, "failed to list reservations", listReservationsEndingAfterSQL, after)
}

func (s *ReservationReadStore) ListOverlapping(ctx context.Context, start, end time.Time) ([]reservation.Reservation, error) {
	return s.list(ctx, "failed to list overlapping reservations", listOverlappingReservationsSQL, pgconv.SlotRange(start, end))
}

func (s *ReservationReadStore) ListByClient(ctx context.Context, clientID uuid.UUID, endingAfter time.Time, after *queries.Keyset, limit int) ([]reservation.Reservation, error) {
	var afterStart, afterID any
	if after != nil {
		afterStart, afterID = after.Start, after.ID
	}
	return s.list(ctx, "failed to list client reservations", listReservationsByClientSQL,
		clientID, endingAfter, afterStart, afterID, limit)
}

func (s *ReservationReadStore) list(ctx context.Context, msg, sql string, args ...any) ([]reservation.Reservation, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, msg, err)
	}
	items, err := pgx.CollectRows(rows, ScanReservation)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, msg, err)
	}
	return items, nil
}

// ScanReservation reads a row selected with reservationColumns.
func ScanReservation(row pgx.CollectableRow) (reservation.Reservation, error) {
	var (
		id        uuid.UUID
		tableID   int64
		clientID  uuid.UUID
		partySize int
		slotRange pgtype.Range[pgtype.Timestamptz]
		createdAt time.Time
	)
	if err := row.Scan(&id, &tableID, &clientID, &partySize, &slotRange, &createdAt); err != nil {
		return reservation.Reservation{}, err
	}
	start, end, err := pgconv.SlotBounds(slotRange)
	if err != nil {
		return reservation.Reservation{}, err
	}
	slot, err := reservation.NewTimeSlot(start, end)
	if err != nil {
		return reservation.Reservation{}, err
	}
	return reservation.Reconstruct(id, tableID, clientID, slot, partySize, createdAt), nil
}
