package repository

import (
	"context"
	"log/slog"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/infra/db"
	"restaurant-booking/internal/infra/readstore"
	"restaurant-booking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
)

const (
	createReservationSQL = `
		INSERT INTO reservations (id, table_id, client_id, party_size, slot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	listTableReservationsOverlappingSQL = `
		SELECT id, table_id, client_id, party_size, slot, created_at
		FROM reservations
		WHERE table_id = $1 AND slot && $2
		ORDER BY lower(slot)`
)

type ReservationRepository struct {
	logger *slog.Logger
}

func NewReservationRepository(logger *slog.Logger) *ReservationRepository {
	return &ReservationRepository{logger: logger}
}

// Create fails with KindConflict when the slot overlaps a booking of the same table.
func (r *ReservationRepository) Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error {
	_, err := tx.Exec(ctx, createReservationSQL,
		res.ID(),
		res.TableID(),
		res.ClientID(),
		res.PartySize(),
		pgconv.SlotRange(res.Start(), res.End()),
		res.CreatedAt(),
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) ListOverlapping(ctx context.Context, tx db.DBTX, tableID int64, slot reservation.TimeSlot) ([]reservation.Reservation, error) {
	rows, err := tx.Query(ctx, listTableReservationsOverlappingSQL, tableID, pgconv.SlotRange(slot.Start(), slot.End()))
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to list overlapping reservations", err)
	}
	items, err := pgx.CollectRows(rows, readstore.ScanReservation)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to scan overlapping reservations", err)
	}
	return items, nil
}
