//go:build unit

package commands_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"
	"time"

	domnotif "restaurant-booking/internal/domain/notification"
	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/domain/table"
	reqdto "restaurant-booking/internal/handler/dto/request"
	"restaurant-booking/internal/infra"
	"restaurant-booking/internal/pkg/clock"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/usecase/commands"
	"restaurant-booking/internal/usecase/shared"
	"restaurant-booking/tests/common/builder"
	queriesmock "restaurant-booking/tests/mock/queries"
	sharedmock "restaurant-booking/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// txMocks wires a mocked UnitOfWork whose Within runs fn against mocked repositories.
type txMocks struct {
	uow           *sharedmock.MockUnitOfWork
	tx            *sharedmock.MockTx
	clients       *sharedmock.MockClientRepository
	tables        *sharedmock.MockTableRepository
	reservations  *sharedmock.MockReservationRepository
	notifications *sharedmock.MockNotificationRepository
	idempotency   *sharedmock.MockIdempotencyRepository
	waiterCalls   *sharedmock.MockWaiterCallRepository
}

func newTxMocks(ctrl *gomock.Controller) *txMocks {
	m := &txMocks{
		uow:           sharedmock.NewMockUnitOfWork(ctrl),
		tx:            sharedmock.NewMockTx(ctrl),
		clients:       sharedmock.NewMockClientRepository(ctrl),
		tables:        sharedmock.NewMockTableRepository(ctrl),
		reservations:  sharedmock.NewMockReservationRepository(ctrl),
		notifications: sharedmock.NewMockNotificationRepository(ctrl),
		idempotency:   sharedmock.NewMockIdempotencyRepository(ctrl),
		waiterCalls:   sharedmock.NewMockWaiterCallRepository(ctrl),
	}
	m.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, m.tx)
		}).AnyTimes()
	m.tx.EXPECT().DB().Return(nil).AnyTimes()
	m.tx.EXPECT().Clients().Return(m.clients).AnyTimes()
	m.tx.EXPECT().Tables().Return(m.tables).AnyTimes()
	m.tx.EXPECT().Reservations().Return(m.reservations).AnyTimes()
	m.tx.EXPECT().Notifications().Return(m.notifications).AnyTimes()
	m.tx.EXPECT().Idempotency().Return(m.idempotency).AnyTimes()
	m.tx.EXPECT().WaiterCalls().Return(m.waiterCalls).AnyTimes()
	return m
}

func requestHash(req reqdto.CreateReservationRequest) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type ReservationCommandsTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	mocks    *txMocks
	queries  *queriesmock.MockReservationQueries
	cmds     commands.ReservationCommands
	clientID uuid.UUID
	key      uuid.UUID
	ttl      time.Duration
}

func (s *ReservationCommandsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mocks = newTxMocks(s.ctrl)
	s.queries = queriesmock.NewMockReservationQueries(s.ctrl)
	s.clientID = uuid.New()
	s.key = uuid.New()
	s.ttl = 24 * time.Hour
	s.cmds = commands.NewReservationCommands(s.mocks.uow, s.queries, clock.NewMockClock(builder.BaseTime), s.ttl)
}

func (s *ReservationCommandsTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestReservationCommandsSuite(t *testing.T) {
	suite.Run(t, new(ReservationCommandsTestSuite))
}

func (s *ReservationCommandsTestSuite) expectClaim(req reqdto.CreateReservationRequest) {
	s.mocks.idempotency.EXPECT().
		TryInsert(gomock.Any(), gomock.Any(), s.key, s.clientID, "POST /api/reservations", requestHash(req), builder.BaseTime.Add(s.ttl)).
		Return(true, nil)
}

func (s *ReservationCommandsTestSuite) TestCreateReservation_Accepted() {
	req := builder.NewBookingRequestBuilder().BuildCreateRequestDTO()
	s.expectClaim(req)

	s.mocks.tables.EXPECT().LockByID(gomock.Any(), gomock.Any(), int64(1)).Return(builder.MustTable(1, 6), nil)
	s.mocks.reservations.EXPECT().ListOverlapping(gomock.Any(), gomock.Any(), int64(1), gomock.Any()).Return(nil, nil)

	var created *reservation.Reservation
	s.mocks.reservations.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ any, res *reservation.Reservation) error {
			created = res
			return nil
		})
	s.mocks.notifications.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ any, n domnotif.Notification, resID *uuid.UUID) error {
			s.Equal(domnotif.KindReservationConfirmed, n.Kind)
			s.Equal(domnotif.StatusSent, n.Status)
			s.Equal(s.clientID, n.ClientID)
			s.Require().NotNil(resID)
			s.Equal(created.ID(), *resID)
			return nil
		})
	s.mocks.idempotency.EXPECT().UpdateStatusCompleted(gomock.Any(), gomock.Any(), s.key, s.clientID, gomock.Any()).Return(nil)

	result, err := s.cmds.CreateReservation(context.Background(), req, s.clientID, s.key)

	s.Require().NoError(err)
	s.False(result.IsReplayed)
	s.Equal(created.ID(), result.Reservation.ID)
	s.Equal(5, result.Reservation.PartySize)
	s.Equal(s.clientID, result.Reservation.ClientID)
}

func (s *ReservationCommandsTestSuite) TestCreateReservation_Rejections() {
	busyStart := builder.BaseTime.Add(5 * time.Hour)

	testCases := []struct {
		name     string
		req      *builder.BookingRequestBuilder
		table    *table.Table
		existing []reservation.Reservation
		reason   reservation.Reason
	}{
		{
			name:   "no table selected",
			req:    builder.NewBookingRequestBuilder().WithoutTable(),
			reason: reservation.ReasonIncomplete,
		},
		{
			name:   "start inside the lead time",
			req:    builder.NewBookingRequestBuilder().WithWindow(builder.BaseTime.Add(time.Hour), builder.BaseTime.Add(3*time.Hour)),
			table:  tablePtr(builder.MustTable(1, 6)),
			reason: reservation.ReasonInsufficientLeadTime,
		},
		{
			name:     "テーブルが予約済み",
			req:      builder.NewBookingRequestBuilder(),
			table:    tablePtr(builder.MustTable(1, 6)),
			existing: []reservation.Reservation{builder.ExistingReservation(1, busyStart, busyStart.Add(time.Hour))},
			reason:   reservation.ReasonTableUnavailable,
		},
		{
			name:   "party too small for the table",
			req:    builder.NewBookingRequestBuilder().WithPartySize("2"),
			table:  tablePtr(builder.MustTable(1, 6)),
			reason: reservation.ReasonPartySizeOutOfRange,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := tc.req.BuildCreateRequestDTO()
			s.expectClaim(req)
			if tc.table != nil {
				s.mocks.tables.EXPECT().LockByID(gomock.Any(), gomock.Any(), tc.table.ID()).Return(*tc.table, nil)
				s.mocks.reservations.EXPECT().ListOverlapping(gomock.Any(), gomock.Any(), tc.table.ID(), gomock.Any()).Return(tc.existing, nil)
			}

			result, err := s.cmds.CreateReservation(context.Background(), req, s.clientID, s.key)

			s.Nil(result)
			reason, ok := reservation.ReasonOf(err)
			s.Require().True(ok, "expected a validation error, got %v", err)
			s.Equal(tc.reason, reason)
		})
	}
}

func (s *ReservationCommandsTestSuite) TestCreateReservation_UnknownTableIsUnavailable() {
	req := builder.NewBookingRequestBuilder().WithTable(99).BuildCreateRequestDTO()
	s.expectClaim(req)
	s.mocks.tables.EXPECT().LockByID(gomock.Any(), gomock.Any(), int64(99)).
		Return(table.Table{}, infra.RepositoryError{Kind: infra.KindNotFound})

	_, err := s.cmds.CreateReservation(context.Background(), req, s.clientID, s.key)

	reason, ok := reservation.ReasonOf(err)
	s.Require().True(ok)
	s.Equal(reservation.ReasonTableUnavailable, reason)
}

func (s *ReservationCommandsTestSuite) TestCreateReservation_ExclusionConflictIsUnavailable() {
	req := builder.NewBookingRequestBuilder().BuildCreateRequestDTO()
	s.expectClaim(req)
	s.mocks.tables.EXPECT().LockByID(gomock.Any(), gomock.Any(), int64(1)).Return(builder.MustTable(1, 6), nil)
	s.mocks.reservations.EXPECT().ListOverlapping(gomock.Any(), gomock.Any(), int64(1), gomock.Any()).Return(nil, nil)
	s.mocks.reservations.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(infra.RepositoryError{Kind: infra.KindConflict})

	_, err := s.cmds.CreateReservation(context.Background(), req, s.clientID, s.key)

	reason, ok := reservation.ReasonOf(err)
	s.Require().True(ok)
	s.Equal(reservation.ReasonTableUnavailable, reason)
}

func (s *ReservationCommandsTestSuite) TestCreateReservation_Idempotency() {
	req := builder.NewBookingRequestBuilder().BuildCreateRequestDTO()
	hash := requestHash(req)

	s.Run("completed key replays the stored reservation", func() {
		view := builder.NewBookingRequestBuilder().BuildView(s.clientID)
		s.mocks.idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), s.key, s.clientID, gomock.Any(), hash, gomock.Any()).Return(false, nil)
		s.mocks.idempotency.EXPECT().Get(gomock.Any(), gomock.Any(), s.key, s.clientID).Return(&shared.IdempotencyRecord{
			Status:              shared.IdempotencyStatusCompleted,
			RequestHash:         hash,
			ResultReservationID: &view.ID,
			ExpiresAt:           builder.BaseTime.Add(time.Hour),
		}, nil)
		s.queries.EXPECT().GetByIDSystem(gomock.Any(), view.ID).Return(view, nil)

		result, err := s.cmds.CreateReservation(context.Background(), req, s.clientID, s.key)

		s.Require().NoError(err)
		s.True(result.IsReplayed)
		s.Equal(view.ID, result.Reservation.ID)
	})

	s.Run("same key with a different body is a mismatch", func() {
		s.mocks.idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), s.key, s.clientID, gomock.Any(), hash, gomock.Any()).Return(false, nil)
		s.mocks.idempotency.EXPECT().Get(gomock.Any(), gomock.Any(), s.key, s.clientID).Return(&shared.IdempotencyRecord{
			Status:      shared.IdempotencyStatusCompleted,
			RequestHash: "another-request",
			ExpiresAt:   builder.BaseTime.Add(time.Hour),
		}, nil)

		_, err := s.cmds.CreateReservation(context.Background(), req, s.clientID, s.key)
		s.True(errs.Is(err, errs.ErrIdempotencyMismatch))
	})

	s.Run("処理中のキーは進行中エラー", func() {
		s.mocks.idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), s.key, s.clientID, gomock.Any(), hash, gomock.Any()).Return(false, nil)
		s.mocks.idempotency.EXPECT().Get(gomock.Any(), gomock.Any(), s.key, s.clientID).Return(&shared.IdempotencyRecord{
			Status:      shared.IdempotencyStatusProcessing,
			RequestHash: hash,
			ExpiresAt:   builder.BaseTime.Add(time.Hour),
		}, nil)

		_, err := s.cmds.CreateReservation(context.Background(), req, s.clientID, s.key)
		s.True(errs.Is(err, errs.ErrIdempotencyInProgress))
	})

	s.Run("an expired key that another request reclaimed is in progress", func() {
		s.mocks.idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), s.key, s.clientID, gomock.Any(), hash, gomock.Any()).Return(false, nil)
		s.mocks.idempotency.EXPECT().Get(gomock.Any(), gomock.Any(), s.key, s.clientID).Return(&shared.IdempotencyRecord{
			Status:      shared.IdempotencyStatusCompleted,
			RequestHash: "old-request",
			ExpiresAt:   builder.BaseTime.Add(-time.Minute),
		}, nil)
		s.mocks.idempotency.EXPECT().ClaimExpired(gomock.Any(), gomock.Any(), s.key, s.clientID, hash, gomock.Any()).Return(int64(0), nil)

		_, err := s.cmds.CreateReservation(context.Background(), req, s.clientID, s.key)
		s.True(errs.Is(err, errs.ErrIdempotencyInProgress))
	})

	s.Run("a nil key is rejected before any transaction", func() {
		_, err := s.cmds.CreateReservation(context.Background(), req, s.clientID, uuid.Nil)
		s.True(errs.Is(err, errs.ErrIdempotencyKeyRequired))
	})

	s.Run("storage failure is a database error", func() {
		s.mocks.idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), s.key, s.clientID, gomock.Any(), hash, gomock.Any()).
			Return(false, errors.New("connection reset"))

		_, err := s.cmds.CreateReservation(context.Background(), req, s.clientID, s.key)
		s.True(errs.Is(err, errs.ErrDatabaseOperationFailed))
	})
}

func tablePtr(t table.Table) *table.Table { return &t }
