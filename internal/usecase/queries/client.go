package queries

//go:generate mockgen -source=client.go -destination=../../../tests/mock/queries/mock_client.go -package=queriesmock

import (
	"context"

	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrClientNotFound = errs.New("client not found")
	ErrClientInactive = errs.New("client inactive")
)

type ClientQueries interface {
	GetCurrentClient(ctx context.Context, clientID uuid.UUID) (*ClientView, error)
}

type ClientReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ClientView, error)
	// FindByEmail also returns the password hash for credential checks.
	FindByEmail(ctx context.Context, email string) (*ClientView, string, error)
}

type clientQueriesImpl struct {
	readStore ClientReadStore
}

func NewClientQueries(readStore ClientReadStore) ClientQueries {
	return &clientQueriesImpl{
		readStore: readStore,
	}
}

func (q *clientQueriesImpl) GetCurrentClient(ctx context.Context, clientID uuid.UUID) (*ClientView, error) {
	client, err := q.readStore.FindByID(ctx, clientID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if !client.IsActive {
		return nil, ErrClientInactive
	}

	return client, nil
}
