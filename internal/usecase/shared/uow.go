package shared

//go:generate mockgen -source=uow.go -destination=../../../tests/mock/shared/mock_uow.go -package=sharedmock

import (
	"context"
	"time"

	domnotif "restaurant-booking/internal/domain/notification"
	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/domain/table"
	"restaurant-booking/internal/domain/waiter"
	"restaurant-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Clients() ClientRepository
	Tables() TableRepository
	Reservations() ReservationRepository
	Notifications() NotificationRepository
	Idempotency() IdempotencyRepository
	WaiterCalls() WaiterCallRepository
	DB() db.DBTX
}

type ClientRepository interface {
	UpdateLastLogin(ctx context.Context, tx db.DBTX, clientID uuid.UUID, at time.Time) error
}

type TableRepository interface {
	// LockByID takes a row lock so bookings of one table are serialized.
	LockByID(ctx context.Context, tx db.DBTX, id int64) (table.Table, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, tx db.DBTX, res *reservation.Reservation) error
	ListOverlapping(ctx context.Context, tx db.DBTX, tableID int64, slot reservation.TimeSlot) ([]reservation.Reservation, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, tx db.DBTX, n domnotif.Notification, reservationID *uuid.UUID) error
	MarkRead(ctx context.Context, tx db.DBTX, id, clientID uuid.UUID) error
}

type IdempotencyRepository interface {
	// TryInsert reports false when the key already exists for the client.
	TryInsert(ctx context.Context, tx db.DBTX, key, clientID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, tx db.DBTX, key, clientID uuid.UUID) (*IdempotencyRecord, error)
	ClaimExpired(ctx context.Context, tx db.DBTX, key, clientID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error)
	UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, clientID uuid.UUID, reservationID uuid.UUID) error
}

type WaiterCallRepository interface {
	Create(ctx context.Context, tx db.DBTX, call *waiter.Call) error
}
