//go:build unit

package queries_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/pkg/clock"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/usecase/queries"
	"restaurant-booking/tests/common/builder"
	queriesmock "restaurant-booking/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCursorRoundTrip(t *testing.T) {
	k := queries.Keyset{Start: time.Date(2026, 3, 14, 18, 30, 0, 123456000, time.UTC), ID: uuid.New()}

	got, err := queries.DecodeCursor(queries.EncodeCursor(k))

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, k.Start.Equal(got.Start))
	assert.Equal(t, k.ID, got.ID)
}

func TestDecodeCursor(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	t.Run("empty cursor is the first page", func(t *testing.T) {
		got, err := queries.DecodeCursor("")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	cases := map[string]string{
		"not base64":      "%%%",
		"unknown version": enc("v2:1-" + uuid.NewString()),
		"no separator":    enc("v1:12345"),
		"bad timestamp":   enc("v1:abc-" + uuid.NewString()),
		"bad uuid":        enc("v1:12345-not-a-uuid"),
	}
	for name, cursor := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := queries.DecodeCursor(cursor)
			assert.True(t, errs.Is(err, queries.ErrInvalidCursor))
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(-3))
	assert.Equal(t, 7, queries.ValidateLimit(7))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(queries.MaxListLimit+1))
}

func TestListByClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockReservationReadStore(ctrl)
	history := 24 * time.Hour
	q := queries.NewReservationQueries(store, clock.NewMockClock(builder.BaseTime), history)
	clientID := uuid.New()
	cutoff := builder.BaseTime.Add(-history)

	mk := func(hours int) reservation.Reservation {
		start := builder.BaseTime.Add(time.Duration(hours) * time.Hour)
		return reservation.Reconstruct(uuid.New(), 1, clientID, builder.MustSlot(start, start.Add(2*time.Hour)), 4, builder.BaseTime)
	}
	rows := []reservation.Reservation{mk(4), mk(8), mk(12)}

	t.Run("a full page yields a cursor at its last row", func(t *testing.T) {
		store.EXPECT().ListByClient(gomock.Any(), clientID, cutoff, (*queries.Keyset)(nil), 3).Return(rows, nil)

		views, next, err := q.ListByClient(context.Background(), clientID, queries.Page{Limit: 2})

		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, rows[1].ID(), views[1].ID)

		k, err := queries.DecodeCursor(next)
		require.NoError(t, err)
		assert.Equal(t, rows[1].ID(), k.ID)
		assert.True(t, rows[1].Slot().Start().Equal(k.Start))
	})

	t.Run("最終ページではカーソルが空", func(t *testing.T) {
		after := queries.Keyset{Start: rows[1].Slot().Start(), ID: rows[1].ID()}
		store.EXPECT().ListByClient(gomock.Any(), clientID, cutoff, gomock.Any(), 3).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, _ time.Time, got *queries.Keyset, _ int) ([]reservation.Reservation, error) {
				require.NotNil(t, got)
				assert.Equal(t, after.ID, got.ID)
				return rows[2:], nil
			})

		views, next, err := q.ListByClient(context.Background(), clientID, queries.Page{Cursor: queries.EncodeCursor(after), Limit: 2})

		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Empty(t, next)
	})

	t.Run("a bad cursor never reaches the store", func(t *testing.T) {
		_, _, err := q.ListByClient(context.Background(), clientID, queries.Page{Cursor: "%%%"})
		assert.True(t, errs.Is(err, queries.ErrInvalidCursor))
	})

	t.Run("store failure is passed through", func(t *testing.T) {
		storeErr := &infra.RepositoryError{Kind: infra.KindDBFailure}
		store.EXPECT().ListByClient(gomock.Any(), clientID, cutoff, gomock.Any(), queries.DefaultListLimit+1).Return(nil, storeErr)

		_, _, err := q.ListByClient(context.Background(), clientID, queries.Page{})
		assert.ErrorIs(t, err, storeErr)
	})
}
