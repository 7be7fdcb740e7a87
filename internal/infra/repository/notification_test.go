//go:build unit

package repository

import (
	"context"
	"testing"

	"restaurant-booking/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationMarkRead(t *testing.T) {
	id, clientID := uuid.New(), uuid.New()

	tests := []struct {
		name      string
		tag       string
		mockError error
		wantKind  infra.RepositoryErrorKind
	}{
		{name: "success", tag: "UPDATE 1"},
		{name: "other client's notification", tag: "UPDATE 0", wantKind: infra.KindNotFound},
		{name: "database error", mockError: &pgconn.PgError{Code: "08006"}, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbtx := new(MockDBTX)
			dbtx.On("Exec", mock.Anything, markNotificationReadSQL, []any{id, clientID}).
				Return(pgconn.NewCommandTag(tt.tag), tt.mockError)

			err := NewNotificationRepository(discardLogger()).MarkRead(context.Background(), dbtx, id, clientID)

			if tt.wantKind == "" {
				assert.NoError(t, err)
			} else {
				assert.True(t, infra.IsKind(err, tt.wantKind), "got %v", err)
			}
			dbtx.AssertExpectations(t)
		})
	}
}
