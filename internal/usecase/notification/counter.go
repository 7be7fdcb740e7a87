package notification

//go:generate mockgen -source=counter.go -destination=../../../tests/mock/notification/mock_counter.go -package=notificationmock

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	domnotif "restaurant-booking/internal/domain/notification"
	"restaurant-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

// DefaultInterval matches the badge refresh cadence of the mobile app.
const DefaultInterval = 10 * time.Second

type Source interface {
	FetchUnreadNotifications(ctx context.Context, clientID uuid.UUID) ([]domnotif.Notification, error)
}

// Counter keeps today's unread notification count for one client fresh.
// A failed poll keeps the previous count; the next tick recomputes it.
type Counter struct {
	source   Source
	clock    clock.Clock
	logger   *slog.Logger
	clientID uuid.UUID
	interval time.Duration
	onChange func(int)

	count atomic.Int64
}

type CounterOption func(*Counter)

// WithOnChange registers a callback fired whenever the count changes.
func WithOnChange(fn func(int)) CounterOption {
	return func(c *Counter) { c.onChange = fn }
}

func NewCounter(source Source, clk clock.Clock, logger *slog.Logger, clientID uuid.UUID, interval time.Duration, opts ...CounterOption) *Counter {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &Counter{
		source:   source,
		clock:    clk,
		logger:   logger.With("component", "notification_counter"),
		clientID: clientID,
		interval: interval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Poll fetches once and updates the count. Errors are logged and swallowed.
func (c *Counter) Poll(ctx context.Context) {
	items, err := c.source.FetchUnreadNotifications(ctx, c.clientID)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn("notification poll failed", "client_id", c.clientID.String(), "error", err.Error())
		}
		return
	}

	next := int64(domnotif.CountToday(items, c.clock.Now()))
	prev := c.count.Swap(next)
	if prev != next && c.onChange != nil {
		c.onChange(int(next))
	}
}

// Run polls immediately and then every interval until ctx is cancelled.
func (c *Counter) Run(ctx context.Context) {
	c.Poll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("notification counter stopped")
			return
		case <-ticker.C:
			c.Poll(ctx)
		}
	}
}

func (c *Counter) Count() int {
	return int(c.count.Load())
}
