package repository

import (
	"context"
	"log/slog"

	"restaurant-booking/internal/domain/table"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/infra/db"
	"restaurant-booking/internal/infra/readstore"

	"github.com/jackc/pgx/v5"
)

const lockTableSQL = `
	SELECT id, capacity
	FROM dining_tables
	WHERE id = $1
	FOR UPDATE`

type TableRepository struct {
	logger *slog.Logger
}

func NewTableRepository(logger *slog.Logger) *TableRepository {
	return &TableRepository{logger: logger}
}

func (r *TableRepository) LockByID(ctx context.Context, tx db.DBTX, id int64) (table.Table, error) {
	rows, err := tx.Query(ctx, lockTableSQL, id)
	if err != nil {
		return table.Table{}, infra.WrapPgErr(r.logger, "failed to lock table", err)
	}
	t, err := pgx.CollectExactlyOneRow(rows, readstore.ScanTable)
	if err != nil {
		return table.Table{}, infra.WrapPgErr(r.logger, "failed to lock table", err)
	}
	return t, nil
}
