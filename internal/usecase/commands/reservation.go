package commands

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/commands/mock_reservation.go -package=commandsmock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	domnotif "restaurant-booking/internal/domain/notification"
	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/domain/table"
	reqdto "restaurant-booking/internal/handler/dto/request"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/pkg/clock"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/usecase/queries"
	"restaurant-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const createReservationEndpoint = "POST /api/reservations"

type CreateReservationResult struct {
	Reservation *queries.ReservationView
	IsReplayed  bool
}

type ReservationCommands interface {
	// CreateReservation validates and books in one transaction. A rejection is
	// returned as *reservation.ValidationError.
	CreateReservation(ctx context.Context, req reqdto.CreateReservationRequest, clientID uuid.UUID, idempotencyKey uuid.UUID) (*CreateReservationResult, error)
}

type reservationCommandsImpl struct {
	uow                shared.UnitOfWork
	reservationQueries queries.ReservationQueries
	clock              clock.Clock
	idempotencyTTL     time.Duration
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	reservationQueries queries.ReservationQueries,
	clk clock.Clock,
	idempotencyTTL time.Duration,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:                uow,
		reservationQueries: reservationQueries,
		clock:              clk,
		idempotencyTTL:     idempotencyTTL,
	}
}

func (r *reservationCommandsImpl) CreateReservation(
	ctx context.Context,
	req reqdto.CreateReservationRequest,
	clientID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*CreateReservationResult, error) {
	if idempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}

	requestHash := calculateRequestHash(req)
	var result *CreateReservationResult

	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := r.clock.Now()

		replayID, err := r.claimKey(ctx, tx, idempotencyKey, clientID, requestHash, now)
		if err != nil {
			return err
		}
		if replayID != nil {
			view, err := r.reservationQueries.GetByIDSystem(ctx, *replayID)
			if err != nil {
				return errs.Wrap(err, "failed to load replayed reservation")
			}
			result = &CreateReservationResult{Reservation: view, IsReplayed: true}
			return nil
		}

		created, err := r.book(ctx, tx, req.ToDomain(), clientID, now)
		if err != nil {
			return err
		}

		if err := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, clientID, created.ID()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		view, err := queries.ToReservationView(*created)
		if err != nil {
			return err
		}
		result = &CreateReservationResult{Reservation: view}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.IsReplayed {
		slog.Info("reservation created",
			"reservation_id", result.Reservation.ID.String(),
			"table_id", result.Reservation.TableID,
			"client_id", clientID.String())
	}
	return result, nil
}

// claimKey records the idempotency key as processing. It returns the stored
// reservation ID when the same request already completed.
func (r *reservationCommandsImpl) claimKey(
	ctx context.Context,
	tx shared.Tx,
	key, clientID uuid.UUID,
	requestHash string,
	now time.Time,
) (*uuid.UUID, error) {
	repo := tx.Idempotency()
	expiresAt := now.Add(r.idempotencyTTL)

	inserted, err := repo.TryInsert(ctx, tx.DB(), key, clientID, createReservationEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if inserted {
		return nil, nil
	}

	existing, err := repo.Get(ctx, tx.DB(), key, clientID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if !existing.ExpiresAt.After(now) {
		claimed, err := repo.ClaimExpired(ctx, tx.DB(), key, clientID, requestHash, expiresAt)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if claimed == 0 {
			return nil, errs.ErrIdempotencyInProgress
		}
		return nil, nil
	}

	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyMismatch
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ResultReservationID == nil {
			return nil, errs.New("completed idempotency key has no reservation")
		}
		return existing.ResultReservationID, nil
	case shared.IdempotencyStatusProcessing:
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.Newf("invalid idempotency key status %q", existing.Status)
	}
}

// book validates against the table's locked state and inserts the reservation.
func (r *reservationCommandsImpl) book(
	ctx context.Context,
	tx shared.Tx,
	req reservation.Request,
	clientID uuid.UUID,
	now time.Time,
) (*reservation.Reservation, error) {
	snapshot, err := r.loadSnapshot(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	verdict := reservation.Validate(req, snapshot, now)
	if !verdict.Accepted {
		slog.Info("reservation rejected", "client_id", clientID.String(), "reason", verdict.Reason.String())
		return nil, verdict.Err()
	}

	slot, err := reservation.NewTimeSlot(req.Start, req.End)
	if err != nil {
		return nil, reservation.NewValidationError(reservation.ReasonInvalidOrder)
	}
	res, err := reservation.New(*req.TableID, clientID, slot, verdict.PartySize, now)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build reservation")
	}

	if err := tx.Reservations().Create(ctx, tx.DB(), res); err != nil {
		// The exclusion constraint catches a booking that raced past the lock.
		if infra.IsKind(err, infra.KindConflict) {
			return nil, reservation.NewValidationError(reservation.ReasonTableUnavailable)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	resID := res.ID()
	if err := tx.Notifications().Create(ctx, tx.DB(), domnotif.Notification{
		ID:        uuid.New(),
		ClientID:  clientID,
		Kind:      domnotif.KindReservationConfirmed,
		Message:   confirmationMessage(res),
		Status:    domnotif.StatusSent,
		CreatedAt: now,
	}, &resID); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return res, nil
}

// loadSnapshot reads only what the table rules need. Requests that fail an
// earlier rule are validated against an empty snapshot.
func (r *reservationCommandsImpl) loadSnapshot(ctx context.Context, tx shared.Tx, req reservation.Request) (reservation.Snapshot, error) {
	if req.TableID == nil {
		return reservation.Snapshot{}, nil
	}
	slot, err := reservation.NewTimeSlot(req.Start, req.End)
	if err != nil {
		return reservation.Snapshot{}, nil
	}

	tbl, err := tx.Tables().LockByID(ctx, tx.DB(), *req.TableID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return reservation.Snapshot{}, nil
		}
		return reservation.Snapshot{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	existing, err := tx.Reservations().ListOverlapping(ctx, tx.DB(), tbl.ID(), slot)
	if err != nil {
		return reservation.Snapshot{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return reservation.Snapshot{
		Tables:       []table.Table{tbl},
		Reservations: existing,
	}, nil
}

func confirmationMessage(res *reservation.Reservation) string {
	return fmt.Sprintf("Table %d is booked for %d from %s to %s",
		res.TableID(), res.PartySize(),
		res.Start().Format("2006-01-02 15:04"), res.End().Format("15:04"))
}

func calculateRequestHash(req reqdto.CreateReservationRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
