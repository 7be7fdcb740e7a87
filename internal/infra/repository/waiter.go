package repository

import (
	"context"
	"log/slog"

	"restaurant-booking/internal/domain/waiter"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/infra/db"
)

const createWaiterCallSQL = `
	INSERT INTO waiter_calls (id, client_id, table_id, created_at)
	VALUES ($1, $2, $3, $4)`

type WaiterCallRepository struct {
	logger *slog.Logger
}

func NewWaiterCallRepository(logger *slog.Logger) *WaiterCallRepository {
	return &WaiterCallRepository{logger: logger}
}

// Create fails with KindForeignKeyViolated for an unknown table.
func (r *WaiterCallRepository) Create(ctx context.Context, tx db.DBTX, call *waiter.Call) error {
	_, err := tx.Exec(ctx, createWaiterCallSQL, call.ID(), call.ClientID(), call.TableID(), call.CreatedAt())
	if err != nil {
		return infra.WrapPgErr(r.logger, "failed to create waiter call", err)
	}
	return nil
}
