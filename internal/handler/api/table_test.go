//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"restaurant-booking/internal/handler/api"
	resdto "restaurant-booking/internal/handler/dto/response"
	"restaurant-booking/internal/usecase/queries"
	"restaurant-booking/tests/common/httptest"
	queriesmock "restaurant-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TableHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockTableQueries
}

func (s *TableHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockTableQueries(s.mockCtrl)
	h := api.NewTableHandler(s.mockQueries)

	g := s.router.Group("/api/tables", fakeAuth(uuid.New()))
	g.GET("", h.List)
	g.GET("/availability", h.Availability)
}

func (s *TableHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestTableHandlerSuite(t *testing.T) {
	suite.Run(t, new(TableHandlerTestSuite))
}

func (s *TableHandlerTestSuite) TestList() {
	s.mockQueries.EXPECT().List(gomock.Any()).
		Return([]queries.TableView{{ID: 1, Capacity: 2}, {ID: 2, Capacity: 6}}, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/tables", nil, "token")

	var response []resdto.TableResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
	want := []resdto.TableResponse{{ID: 1, Capacity: 2}, {ID: 2, Capacity: 6}}
	s.Empty(cmp.Diff(want, response))
}

func (s *TableHandlerTestSuite) TestAvailability() {
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	url := "/api/tables/availability?start=2026-03-14T18:00:00Z&end=2026-03-14T20:00:00Z"

	s.Run("success: annotates each table", func() {
		s.mockQueries.EXPECT().Availability(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, gotStart, gotEnd time.Time) ([]queries.TableView, error) {
				s.True(start.Equal(gotStart))
				s.True(end.Equal(gotEnd))
				return []queries.TableView{
					{ID: 1, Capacity: 2, Available: true},
					{ID: 2, Capacity: 6, Available: false},
				}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var response []resdto.TableAvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 2)
		s.True(response[0].Available)
		s.False(response[1].Available)
	})

	s.Run("error: 400 when the window is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/tables/availability?start=2026-03-14T18:00:00Z", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 400 when start is not before end", func() {
		s.mockQueries.EXPECT().Availability(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, queries.ErrInvalidWindow).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Start must be before end")
	})

	s.Run("error: 500 when the store fails", func() {
		s.mockQueries.EXPECT().Availability(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal error")
	})
}
