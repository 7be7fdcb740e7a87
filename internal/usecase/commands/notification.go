package commands

//go:generate mockgen -source=notification.go -destination=../../../tests/mock/commands/mock_notification.go -package=commandsmock

import (
	"context"

	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationCommands interface {
	MarkRead(ctx context.Context, clientID, notificationID uuid.UUID) error
}

type notificationCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewNotificationCommands(uow shared.UnitOfWork) NotificationCommands {
	return &notificationCommandsImpl{uow: uow}
}

func (n *notificationCommandsImpl) MarkRead(ctx context.Context, clientID, notificationID uuid.UUID) error {
	return n.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.Notifications().MarkRead(ctx, tx.DB(), notificationID, clientID)
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrNotificationNotFound
		}
		return err
	})
}
