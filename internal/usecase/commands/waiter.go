package commands

//go:generate mockgen -source=waiter.go -destination=../../../tests/mock/commands/mock_waiter.go -package=commandsmock

import (
	"context"
	"fmt"
	"log/slog"

	domnotif "restaurant-booking/internal/domain/notification"
	"restaurant-booking/internal/domain/waiter"
	reqdto "restaurant-booking/internal/handler/dto/request"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/pkg/clock"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type WaiterCommands interface {
	CallWaiter(ctx context.Context, clientID uuid.UUID, req reqdto.CallWaiterRequest) (*waiter.Call, error)
}

type waiterCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewWaiterCommands(uow shared.UnitOfWork, clk clock.Clock) WaiterCommands {
	return &waiterCommandsImpl{uow: uow, clock: clk}
}

func (w *waiterCommandsImpl) CallWaiter(ctx context.Context, clientID uuid.UUID, req reqdto.CallWaiterRequest) (*waiter.Call, error) {
	now := w.clock.Now()
	call, err := waiter.NewCall(clientID, req.TableID, now)
	if err != nil {
		return nil, err
	}

	err = w.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.WaiterCalls().Create(ctx, tx.DB(), call); err != nil {
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return errs.ErrTableNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return tx.Notifications().Create(ctx, tx.DB(), domnotif.Notification{
			ID:        uuid.New(),
			ClientID:  clientID,
			Kind:      domnotif.KindWaiterCalled,
			Message:   fmt.Sprintf("A waiter is on the way to table %d", call.TableID()),
			Status:    domnotif.StatusSent,
			CreatedAt: now,
		}, nil)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("waiter called", "client_id", clientID.String(), "table_id", call.TableID())
	return call, nil
}
