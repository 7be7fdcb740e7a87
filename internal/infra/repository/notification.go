package repository

import (
	"context"
	"log/slog"

	domnotif "restaurant-booking/internal/domain/notification"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/infra/db"

	"github.com/google/uuid"
)

const (
	createNotificationSQL = `
		INSERT INTO client_notifications (id, client_id, kind, message, status, is_read, reservation_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	markNotificationReadSQL = `
		UPDATE client_notifications
		SET is_read = true
		WHERE id = $1 AND client_id = $2`
)

type NotificationRepository struct {
	logger *slog.Logger
}

func NewNotificationRepository(logger *slog.Logger) *NotificationRepository {
	return &NotificationRepository{logger: logger}
}

func (r *NotificationRepository) Create(ctx context.Context, tx db.DBTX, n domnotif.Notification, reservationID *uuid.UUID) error {
	_, err := tx.Exec(ctx, createNotificationSQL,
		n.ID,
		n.ClientID,
		string(n.Kind),
		n.Message,
		string(n.Status),
		n.IsRead,
		reservationID,
		n.CreatedAt,
	)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to create notification", err)
	}
	return nil
}

// MarkRead reports KindNotFound when the notification does not belong to the client.
func (r *NotificationRepository) MarkRead(ctx context.Context, tx db.DBTX, id, clientID uuid.UUID) error {
	tag, err := tx.Exec(ctx, markNotificationReadSQL, id, clientID)
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "notification not found", nil)
	}
	return nil
}
