package readstore

import (
	"context"
	"log/slog"

	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/infra/db"
	"restaurant-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

const (
	findClientByIDSQL = `
		SELECT id, email, name, is_active
		FROM clients
		WHERE id = $1`

	findClientByEmailSQL = `
		SELECT id, email, name, is_active, password_hash
		FROM clients
		WHERE email = $1`
)

type ClientReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewClientReadStore(db db.DBTX, logger *slog.Logger) *ClientReadStore {
	return &ClientReadStore{db: db, logger: logger}
}

func (s *ClientReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ClientView, error) {
	var v queries.ClientView
	err := s.db.QueryRow(ctx, findClientByIDSQL, id).Scan(&v.ID, &v.Email, &v.Name, &v.IsActive)
	if err != nil {
		return nil, infra.WrapPgErr(s.logger, "failed to find client by ID", err)
	}
	return &v, nil
}

func (s *ClientReadStore) FindByEmail(ctx context.Context, email string) (*queries.ClientView, string, error) {
	var (
		v    queries.ClientView
		hash string
	)
	err := s.db.QueryRow(ctx, findClientByEmailSQL, email).Scan(&v.ID, &v.Email, &v.Name, &v.IsActive, &hash)
	if err != nil {
		return nil, "", infra.WrapPgErr(s.logger, "failed to find client by email", err)
	}
	return &v, hash, nil
}
