//go:build unit

package waiter_test

import (
	"testing"
	"time"

	"restaurant-booking/internal/domain/waiter"
	"restaurant-booking/internal/pkg/ptr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCall(t *testing.T) {
	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	clientID := uuid.New()

	t.Run("success", func(t *testing.T) {
		call, err := waiter.NewCall(clientID, ptr.Of(int64(7)), now)
		require.NoError(t, err)
		assert.Equal(t, int64(7), call.TableID())
		assert.Equal(t, clientID, call.ClientID())
		assert.NotEqual(t, uuid.Nil, call.ID())
		assert.True(t, call.CreatedAt().Equal(now))
	})

	t.Run("テーブル番号なしは拒否される", func(t *testing.T) {
		_, err := waiter.NewCall(clientID, nil, now)
		assert.ErrorIs(t, err, waiter.ErrTableRequired)
	})

	t.Run("non-positive table number", func(t *testing.T) {
		_, err := waiter.NewCall(clientID, ptr.Of(int64(0)), now)
		assert.ErrorIs(t, err, waiter.ErrTableRequired)
	})
}
