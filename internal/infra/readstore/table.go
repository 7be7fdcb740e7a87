package readstore

import (
	"context"
	"log/slog"

	"restaurant-booking/internal/domain/table"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/infra/db"

	"github.com/jackc/pgx/v5"
)

const listTablesSQL = `
	SELECT id, capacity
	FROM dining_tables
	ORDER BY id`

type TableReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewTableReadStore(db db.DBTX, logger *slog.Logger) *TableReadStore {
	return &TableReadStore{db: db, logger: logger}
}

func (s *TableReadStore) List(ctx context.Context) ([]table.Table, error) {
	rows, err := s.db.Query(ctx, listTablesSQL)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to list tables", err)
	}
	tables, err := pgx.CollectRows(rows, ScanTable)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to scan tables", err)
	}
	return tables, nil
}

// ScanTable reads an (id, capacity) row.
func ScanTable(row pgx.CollectableRow) (table.Table, error) {
	var (
		id       int64
		capacity int
	)
	if err := row.Scan(&id, &capacity); err != nil {
		return table.Table{}, err
	}
	return table.New(id, capacity)
}
