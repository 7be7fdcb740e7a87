//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"restaurant-booking/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DefaultPassword is the password of every client created by CreateTestClient.
const DefaultPassword = "password123"

var (
	hashOnce       sync.Once
	defaultHash    string
	defaultHashErr error
)

func passwordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		defaultHash, defaultHashErr = password.Hash(DefaultPassword)
	})
	require.NoError(t, defaultHashErr)
	return defaultHash
}

// DiningTables is the floor plan seeded by SeedReferenceData: table number -> seats.
var DiningTables = map[int64]int{
	1: 2,
	2: 2,
	3: 4,
	4: 4,
	5: 6,
	6: 8,
}

func CreateTestClient(t *testing.T, db DBLike, email, name string) uuid.UUID {
	t.Helper()

	clientID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO clients (id, email, name, password_hash, is_active) VALUES ($1, $2, $3, $4, true) ON CONFLICT (email) DO NOTHING",
		clientID, email, name, passwordHash(t))
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM clients WHERE email = $1", email).Scan(&clientID)
	}

	return clientID
}

func DeactivateClient(t *testing.T, db DBLike, email string) {
	t.Helper()
	_, err := db.Exec(context.Background(), "UPDATE clients SET is_active = false WHERE email = $1", email)
	require.NoError(t, err)
}

// CreateTestReservation books [start, end) directly, bypassing validation.
func CreateTestReservation(t *testing.T, db DBLike, clientID uuid.UUID, tableID int64, partySize int, start, end time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO reservations (id, table_id, client_id, party_size, slot) VALUES ($1, $2, $3, $4, tstzrange($5, $6, '[)'))",
		id, tableID, clientID, partySize, start, end)
	require.NoError(t, err)
	return id
}

func CreateTestNotification(t *testing.T, db DBLike, clientID uuid.UUID, kind, status string, createdAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO client_notifications (id, client_id, kind, message, status, created_at) VALUES ($1, $2, $3, '', $4, $5)",
		id, clientID, kind, status, createdAt)
	require.NoError(t, err)
	return id
}

func CountRows(t *testing.T, db DBLike, table string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}

// inserts the dining room floor plan
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	values := make([]string, 0, len(DiningTables))
	args := make([]any, 0, 2*len(DiningTables))
	for id, capacity := range DiningTables {
		values = append(values, fmt.Sprintf("($%d, $%d)", len(args)+1, len(args)+2))
		args = append(args, id, capacity)
	}

	_, err := pool.Exec(ctx,
		"INSERT INTO dining_tables (id, capacity) VALUES "+strings.Join(values, ", ")+" ON CONFLICT (id) DO NOTHING",
		args...)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
