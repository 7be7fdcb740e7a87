package readstore

import (
	"context"
	"log/slog"

	domnotif "restaurant-booking/internal/domain/notification"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const listUnreadNotificationsSQL = `
	SELECT id, client_id, kind, message, status, is_read, created_at
	FROM client_notifications
	WHERE client_id = $1 AND NOT is_read
	ORDER BY created_at DESC`

type NotificationReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewNotificationReadStore(db db.DBTX, logger *slog.Logger) *NotificationReadStore {
	return &NotificationReadStore{db: db, logger: logger}
}

func (s *NotificationReadStore) ListUnread(ctx context.Context, clientID uuid.UUID) ([]domnotif.Notification, error) {
	rows, err := s.db.Query(ctx, listUnreadNotificationsSQL, clientID)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to list unread notifications", err)
	}
	items, err := pgx.CollectRows(rows, scanNotification)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to scan notifications", err)
	}
	return items, nil
}

func scanNotification(row pgx.CollectableRow) (domnotif.Notification, error) {
	var (
		n            domnotif.Notification
		kind, status string
	)
	if err := row.Scan(&n.ID, &n.ClientID, &kind, &n.Message, &status, &n.IsRead, &n.CreatedAt); err != nil {
		return domnotif.Notification{}, err
	}
	n.Kind = domnotif.Kind(kind)
	n.Status = domnotif.Status(status)
	return n, nil
}
