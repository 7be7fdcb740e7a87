//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	domnotif "restaurant-booking/internal/domain/notification"
	"restaurant-booking/internal/handler/api"
	resdto "restaurant-booking/internal/handler/dto/response"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/tests/common/builder"
	"restaurant-booking/tests/common/httptest"
	commandsmock "restaurant-booking/tests/mock/commands"
	queriesmock "restaurant-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type NotificationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockNotificationCommands
	mockQueries  *queriesmock.MockNotificationQueries
	clientID     uuid.UUID
}

func (s *NotificationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.clientID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockNotificationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockNotificationQueries(s.mockCtrl)
	h := api.NewNotificationHandler(s.mockCommands, s.mockQueries)

	g := s.router.Group("/api/notifications", fakeAuth(s.clientID))
	g.GET("/unread", h.ListUnread)
	g.PATCH("/:id/read", h.MarkRead)
}

func (s *NotificationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestNotificationHandlerSuite(t *testing.T) {
	suite.Run(t, new(NotificationHandlerTestSuite))
}

func (s *NotificationHandlerTestSuite) TestListUnread() {
	items := []domnotif.Notification{{
		ID:        uuid.New(),
		ClientID:  s.clientID,
		Kind:      domnotif.KindReservationConfirmed,
		Message:   "Table 1 is booked",
		Status:    domnotif.StatusSent,
		CreatedAt: builder.BaseTime.Add(-time.Hour),
	}}

	s.Run("success: kinds and statuses are plain strings", func() {
		s.mockQueries.EXPECT().ListUnread(gomock.Any(), s.clientID).Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/notifications/unread", nil, "token")

		var response []resdto.NotificationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 1)
		s.Equal(items[0].ID, response[0].ID)
		s.Equal("reservation_confirmed", response[0].Kind)
		s.Equal("sent", response[0].Status)
		s.False(response[0].IsRead)
	})

	s.Run("error: 401 without authentication", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/notifications/unread", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

func (s *NotificationHandlerTestSuite) TestMarkRead() {
	id := uuid.New()
	url := "/api/notifications/" + id.String() + "/read"

	s.Run("success: 204", func() {
		s.mockCommands.EXPECT().MarkRead(gomock.Any(), s.clientID, id).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, nil, "token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: maps command errors to proper statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
			expectedMsg    string
		}{
			{"他のクライアントの通知", errs.ErrNotificationNotFound, http.StatusNotFound, "Not found"},
			{"internal error", errors.New("database error"), http.StatusInternalServerError, "Internal error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().MarkRead(gomock.Any(), s.clientID, id).Return(tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, nil, "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
