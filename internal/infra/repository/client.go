package repository

import (
	"context"
	"log/slog"
	"time"

	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/infra/db"

	"github.com/google/uuid"
)

const updateClientLastLoginSQL = `
	UPDATE clients
	SET last_login_at = $2, updated_at = $2
	WHERE id = $1`

type ClientRepository struct {
	logger *slog.Logger
}

func NewClientRepository(logger *slog.Logger) *ClientRepository {
	return &ClientRepository{logger: logger}
}

func (r *ClientRepository) UpdateLastLogin(ctx context.Context, tx db.DBTX, clientID uuid.UUID, at time.Time) error {
	if _, err := tx.Exec(ctx, updateClientLastLoginSQL, clientID, at); err != nil {
		return infra.WrapPgErr(r.logger, "failed to update client last login", err)
	}
	return nil
}
