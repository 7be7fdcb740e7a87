//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 14, h, m, 0, 0, time.UTC)
}

func TestNewTimeSlot(t *testing.T) {
	t.Run("start before end OK", func(t *testing.T) {
		ts, err := reservation.NewTimeSlot(at(14, 0), at(16, 0))
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, ts.Duration())
	})

	t.Run("empty span NG", func(t *testing.T) {
		_, err := reservation.NewTimeSlot(at(14, 0), at(14, 0))
		assert.ErrorIs(t, err, reservation.ErrInvalidTimeSlot)
	})

	t.Run("reversed span NG", func(t *testing.T) {
		_, err := reservation.NewTimeSlot(at(16, 0), at(14, 0))
		assert.ErrorIs(t, err, reservation.ErrInvalidTimeSlot)
	})
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b reservation.TimeSlot
		want bool
	}{
		{"identical", builder.MustSlot(at(14, 0), at(16, 0)), builder.MustSlot(at(14, 0), at(16, 0)), true},
		{"partial overlap", builder.MustSlot(at(14, 0), at(16, 0)), builder.MustSlot(at(15, 0), at(17, 0)), true},
		{"containment", builder.MustSlot(at(12, 0), at(20, 0)), builder.MustSlot(at(15, 0), at(16, 0)), true},
		{"adjacent after", builder.MustSlot(at(14, 0), at(16, 0)), builder.MustSlot(at(16, 0), at(18, 0)), false},
		{"adjacent before", builder.MustSlot(at(12, 0), at(14, 0)), builder.MustSlot(at(14, 0), at(16, 0)), false},
		{"disjoint", builder.MustSlot(at(10, 0), at(11, 0)), builder.MustSlot(at(14, 0), at(16, 0)), false},
		{"one minute shared", builder.MustSlot(at(14, 0), at(16, 1)), builder.MustSlot(at(16, 0), at(18, 0)), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reservation.Overlaps(tc.a, tc.b))
			assert.Equal(t, reservation.Overlaps(tc.a, tc.b), reservation.Overlaps(tc.b, tc.a), "overlap must be symmetric")
		})
	}

	t.Run("non-empty slot overlaps itself", func(t *testing.T) {
		for _, tc := range cases {
			assert.True(t, reservation.Overlaps(tc.a, tc.a), tc.name)
			assert.True(t, reservation.Overlaps(tc.b, tc.b), tc.name)
		}
	})
}

func TestWindow(t *testing.T) {
	slot := builder.MustSlot(at(14, 0), at(16, 0))

	t.Run("incomplete without either bound", func(t *testing.T) {
		assert.False(t, reservation.Window{}.IsComplete())
		assert.False(t, reservation.Window{Start: at(14, 0)}.IsComplete())
		assert.False(t, reservation.Window{End: at(16, 0)}.IsComplete())
		assert.True(t, reservation.Window{Start: at(14, 0), End: at(16, 0)}.IsComplete())
	})

	t.Run("uses half-open semantics", func(t *testing.T) {
		assert.True(t, reservation.Window{Start: at(15, 0), End: at(17, 0)}.Overlaps(slot))
		assert.False(t, reservation.Window{Start: at(16, 0), End: at(18, 0)}.Overlaps(slot))
	})
}
