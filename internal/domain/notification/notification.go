package notification

import (
	"time"

	"restaurant-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
)

type Kind string

const (
	KindReservationConfirmed Kind = "reservation_confirmed"
	KindWaiterCalled         Kind = "waiter_called"
	KindRatingRequest        Kind = "rating_request"
)

type Notification struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Kind      Kind
	Message   string
	Status    Status
	IsRead    bool
	CreatedAt time.Time
}

// Counts reports whether n belongs in today's unread badge: unread, sent,
// and created on or after local midnight of now's day.
func Counts(n Notification, now time.Time) bool {
	return !n.IsRead && n.Status == StatusSent && clock.IsSameDayOrAfter(n.CreatedAt, now)
}

func CountToday(ns []Notification, now time.Time) int {
	count := 0
	for _, n := range ns {
		if Counts(n, now) {
			count++
		}
	}
	return count
}
