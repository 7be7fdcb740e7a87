package repository

import (
	"context"
	"log/slog"
	"time"

	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/infra/db"
	"restaurant-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	tryInsertIdempotencyKeySQL = `
		INSERT INTO idempotency_keys (key, client_id, endpoint, request_hash, status, expires_at)
		VALUES ($1, $2, $3, $4, 'processing', $5)
		ON CONFLICT (key, client_id) DO NOTHING`

	getIdempotencyKeySQL = `
		SELECT key, client_id, status, request_hash, result_reservation_id, expires_at
		FROM idempotency_keys
		WHERE key = $1 AND client_id = $2`

	claimExpiredIdempotencyKeySQL = `
		UPDATE idempotency_keys
		SET status = 'processing', request_hash = $3, expires_at = $4,
		    result_reservation_id = NULL, updated_at = now()
		WHERE key = $1 AND client_id = $2 AND expires_at <= now()`

	completeIdempotencyKeySQL = `
		UPDATE idempotency_keys
		SET status = 'completed', result_reservation_id = $3, updated_at = now()
		WHERE key = $1 AND client_id = $2`
)

type IdempotencyRepository struct {
	logger *slog.Logger
}

func NewIdempotencyRepository(logger *slog.Logger) *IdempotencyRepository {
	return &IdempotencyRepository{logger: logger}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, tx db.DBTX, key, clientID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := tx.Exec(ctx, tryInsertIdempotencyKeySQL, key, clientID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapPgErr(r.logger, "failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, tx db.DBTX, key, clientID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		rec      shared.IdempotencyRecord
		resultID pgtype.UUID
	)
	err := tx.QueryRow(ctx, getIdempotencyKeySQL, key, clientID).Scan(
		&rec.Key, &rec.ClientID, &rec.Status, &rec.RequestHash, &resultID, &rec.ExpiresAt,
	)
	if err != nil {
		return nil, infra.WrapPgErr(r.logger, "failed to get idempotency key", err)
	}
	if resultID.Valid {
		id := uuid.UUID(resultID.Bytes)
		rec.ResultReservationID = &id
	}
	return &rec, nil
}

func (r *IdempotencyRepository) ClaimExpired(ctx context.Context, tx db.DBTX, key, clientID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, claimExpiredIdempotencyKeySQL, key, clientID, requestHash, expiresAt)
	if err != nil {
		return 0, infra.WrapPgErr(r.logger, "failed to claim expired idempotency key", err)
	}
	return tag.RowsAffected(), nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, clientID uuid.UUID, reservationID uuid.UUID) error {
	if _, err := tx.Exec(ctx, completeIdempotencyKeySQL, key, clientID, reservationID); err != nil {
		return infra.WrapPgErr(r.logger, "failed to update idempotency key status", err)
	}
	return nil
}
