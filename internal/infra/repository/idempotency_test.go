//go:build unit

package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIdempotencyTryInsert(t *testing.T) {
	key, clientID := uuid.New(), uuid.New()
	expiresAt := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		tag          string
		mockError    error
		wantInserted bool
		wantKind     infra.RepositoryErrorKind
	}{
		{name: "new key", tag: "INSERT 0 1", wantInserted: true},
		{name: "existing key", tag: "INSERT 0 0", wantInserted: false},
		{name: "database error", tag: "", mockError: assert.AnError, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbtx := new(MockDBTX)
			dbtx.On("Exec", mock.Anything, tryInsertIdempotencyKeySQL, mock.Anything).
				Return(pgconn.NewCommandTag(tt.tag), tt.mockError)

			repo := NewIdempotencyRepository(discardLogger())
			inserted, err := repo.TryInsert(context.Background(), dbtx, key, clientID, "POST /api/reservations", "hash", expiresAt)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantInserted, inserted)
			dbtx.AssertExpectations(t)
		})
	}
}

func TestIdempotencyGet(t *testing.T) {
	key, clientID, reservationID := uuid.New(), uuid.New(), uuid.New()
	expiresAt := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	t.Run("completed record carries the reservation", func(t *testing.T) {
		dbtx := new(MockDBTX)
		dbtx.On("QueryRow", mock.Anything, getIdempotencyKeySQL, mock.Anything).Return(scanFunc(func(dest ...any) error {
			*dest[0].(*uuid.UUID) = key
			*dest[1].(*uuid.UUID) = clientID
			*dest[2].(*string) = shared.IdempotencyStatusCompleted
			*dest[3].(*string) = "hash"
			*dest[4].(*pgtype.UUID) = pgtype.UUID{Bytes: reservationID, Valid: true}
			*dest[5].(*time.Time) = expiresAt
			return nil
		}))

		rec, err := NewIdempotencyRepository(discardLogger()).Get(context.Background(), dbtx, key, clientID)
		require.NoError(t, err)
		require.NotNil(t, rec.ResultReservationID)
		assert.Equal(t, reservationID, *rec.ResultReservationID)
		assert.Equal(t, shared.IdempotencyStatusCompleted, rec.Status)
		assert.Equal(t, expiresAt, rec.ExpiresAt)
	})

	t.Run("処理中のレコードは予約IDを持たない", func(t *testing.T) {
		dbtx := new(MockDBTX)
		dbtx.On("QueryRow", mock.Anything, getIdempotencyKeySQL, mock.Anything).Return(scanFunc(func(dest ...any) error {
			*dest[2].(*string) = shared.IdempotencyStatusProcessing
			return nil
		}))

		rec, err := NewIdempotencyRepository(discardLogger()).Get(context.Background(), dbtx, key, clientID)
		require.NoError(t, err)
		assert.Nil(t, rec.ResultReservationID)
	})

	t.Run("missing key", func(t *testing.T) {
		dbtx := new(MockDBTX)
		dbtx.On("QueryRow", mock.Anything, getIdempotencyKeySQL, mock.Anything).
			Return(scanFunc(func(...any) error { return pgx.ErrNoRows }))

		_, err := NewIdempotencyRepository(discardLogger()).Get(context.Background(), dbtx, key, clientID)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
