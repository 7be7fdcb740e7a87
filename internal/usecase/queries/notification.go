package queries

//go:generate mockgen -source=notification.go -destination=../../../tests/mock/queries/mock_notification.go -package=queriesmock

import (
	"context"

	domnotif "restaurant-booking/internal/domain/notification"

	"github.com/google/uuid"
)

type NotificationQueries interface {
	// ListUnread returns every unread notification of the client, newest first.
	ListUnread(ctx context.Context, clientID uuid.UUID) ([]domnotif.Notification, error)
}

type NotificationReadStore interface {
	ListUnread(ctx context.Context, clientID uuid.UUID) ([]domnotif.Notification, error)
}

type notificationQueriesImpl struct {
	store NotificationReadStore
}

func NewNotificationQueries(store NotificationReadStore) NotificationQueries {
	return &notificationQueriesImpl{store: store}
}

func (q *notificationQueriesImpl) ListUnread(ctx context.Context, clientID uuid.UUID) ([]domnotif.Notification, error) {
	return q.store.ListUnread(ctx, clientID)
}
