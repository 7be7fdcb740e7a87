//go:build e2e

package booking_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	nethttptest "net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/handler/api"
	"restaurant-booking/internal/handler/dto/request"
	resdto "restaurant-booking/internal/handler/dto/response"
	"restaurant-booking/internal/pkg/ptr"
	"restaurant-booking/tests/common/authtest"
	"restaurant-booking/tests/common/dbtest"
	"restaurant-booking/tests/common/httptest"
	"restaurant-booking/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

const reservationsURL = "/api/reservations"

type bookingSuite struct {
	e2e.SharedSuite
	clientID uuid.UUID
	token    string
	// start is a window start comfortably past the lead time.
	start time.Time
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(bookingSuite))
}

func (s *bookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	s.clientID, s.token = authtest.CreateAndLogin(s.T(), s.DB, s.Router, "guest@example.com")
	s.start = s.Clock.Now().Add(24 * time.Hour).Truncate(time.Hour).UTC()
}

func (s *bookingSuite) body(tableID int64, party int, start time.Time, d time.Duration) request.CreateReservationRequest {
	return request.CreateReservationRequest{
		TableID:   ptr.Of(tableID),
		Start:     ptr.Of(start),
		End:       ptr.Of(start.Add(d)),
		PartySize: ptr.Of(party),
	}
}

func (s *bookingSuite) create(key string, body request.CreateReservationRequest) *nethttptest.ResponseRecorder {
	headers := map[string]string{}
	if key != "" {
		headers[api.IdempotencyKeyHeader] = key
	}
	return httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, reservationsURL, body, headers, s.token)
}

func (s *bookingSuite) TestCreateReservation() {
	s.Run("予約作成と再送", func() {
		t := s.T()
		key := uuid.NewString()
		body := s.body(3, 4, s.start, 2*time.Hour)

		w := s.create(key, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created resdto.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, int64(3), created.TableID)
		require.Equal(t, s.clientID, created.ClientID)
		require.False(t, created.Replayed)
		require.Equal(t, "/api/reservations/"+created.ID.String(), w.Header().Get("Location"))

		// 同じキーで再送すると同じ予約が返る
		w = s.create(key, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var replayed resdto.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &replayed))
		require.Equal(t, created.ID, replayed.ID)
		require.True(t, replayed.Replayed)
		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "reservations"))

		// 同じキーで内容を変えると拒否
		w = s.create(key, s.body(3, 3, s.start, 2*time.Hour))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

		// 確定通知が一件だけ作られる
		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "client_notifications"))
	})

	s.Run("rejections carry a reason and leave nothing behind", func() {
		t := s.T()

		dbtest.CreateTestReservation(t, s.DB, dbtest.CreateTestClient(t, s.DB, "other@example.com", "Hugo Moreau"),
			3, 4, s.start, s.start.Add(2*time.Hour))

		cases := []struct {
			name   string
			body   request.CreateReservationRequest
			status int
			reason string
		}{
			{"overlap", s.body(3, 4, s.start.Add(time.Hour), 2*time.Hour), http.StatusConflict, "table_unavailable"},
			{"party below the table's range", s.body(5, 2, s.start, 2*time.Hour), http.StatusUnprocessableEntity, "party_size_out_of_range"},
			{"party above capacity", s.body(1, 3, s.start, 2*time.Hour), http.StatusUnprocessableEntity, "party_size_out_of_range"},
			{"too soon", s.body(4, 4, s.Clock.Now().Add(time.Hour), 2*time.Hour), http.StatusUnprocessableEntity, "insufficient_lead_time"},
			{"end before start", s.body(4, 4, s.start, -time.Hour), http.StatusUnprocessableEntity, "invalid_order"},
			{"missing table", request.CreateReservationRequest{Start: ptr.Of(s.start), End: ptr.Of(s.start.Add(time.Hour)), PartySize: ptr.Of(2)}, http.StatusUnprocessableEntity, "incomplete"},
			{"unknown table", s.body(99, 2, s.start, 2*time.Hour), http.StatusConflict, "table_unavailable"},
		}

		for _, tc := range cases {
			w := s.create(uuid.NewString(), tc.body)
			httptest.AssertErrorReason(t, w, tc.status, tc.reason)
		}

		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "reservations"))
		require.Zero(t, dbtest.CountRows(t, s.DB, "idempotency_keys"))
	})

	s.Run("リードタイムちょうどは予約できる", func() {
		t := s.T()
		start := s.Clock.Now().Add(reservation.LeadTime)

		w := s.create(uuid.NewString(), s.body(4, 4, start, 2*time.Hour))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// 一秒でも足りなければ拒否
		s.Clock.Add(time.Second)
		w = s.create(uuid.NewString(), s.body(3, 4, start, 2*time.Hour))
		httptest.AssertErrorReason(t, w, http.StatusUnprocessableEntity, "insufficient_lead_time")
	})

	s.Run("隣接する時間帯は予約できる", func() {
		t := s.T()

		w := s.create(uuid.NewString(), s.body(3, 4, s.start, 2*time.Hour))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		w = s.create(uuid.NewString(), s.body(3, 4, s.start.Add(2*time.Hour), 2*time.Hour))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	s.Run("missing or malformed idempotency key", func() {
		t := s.T()
		body := s.body(3, 4, s.start, 2*time.Hour)

		require.Equal(t, http.StatusBadRequest, s.create("", body).Code)
		require.Equal(t, http.StatusBadRequest, s.create("not-a-uuid", body).Code)
		require.Zero(t, dbtest.CountRows(t, s.DB, "reservations"))
	})

	s.Run("同じテーブルへの同時予約は一件だけ成功", func() {
		t := s.T()
		const n = 8

		var created, conflicted atomic.Int32
		var g errgroup.Group
		for range n {
			g.Go(func() error {
				data, err := json.Marshal(s.body(5, 5, s.start, 2*time.Hour))
				if err != nil {
					return err
				}
				req := nethttptest.NewRequest(http.MethodPost, reservationsURL, bytes.NewReader(data))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("Authorization", "Bearer "+s.token)
				req.Header.Set(api.IdempotencyKeyHeader, uuid.NewString())

				w := nethttptest.NewRecorder()
				s.Router.ServeHTTP(w, req)
				switch w.Code {
				case http.StatusCreated:
					created.Add(1)
				case http.StatusConflict:
					conflicted.Add(1)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		require.Equal(t, int32(1), created.Load())
		require.Equal(t, int32(n-1), conflicted.Load())
		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "reservations"))
	})
}

func (s *bookingSuite) TestReadSide() {
	s.Run("一覧と空き状況", func() {
		t := s.T()

		w := s.create(uuid.NewString(), s.body(3, 4, s.start, 2*time.Hour))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created resdto.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/tables", nil, s.token)
		require.Equal(t, http.StatusOK, w.Code)
		var tables []resdto.TableResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &tables))
		require.Len(t, tables, len(dbtest.DiningTables))

		q := url.Values{}
		q.Set("start", s.start.Add(time.Hour).Format(time.RFC3339))
		q.Set("end", s.start.Add(3*time.Hour).Format(time.RFC3339))
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/tables/availability?"+q.Encode(), nil, s.token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var avail []resdto.TableAvailabilityResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &avail))
		for _, a := range avail {
			require.Equal(t, a.ID != 3, a.Available, "table %d", a.ID)
		}

		// 公開一覧には予約者と人数が含まれない
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL, nil, s.token)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotContains(t, w.Body.String(), "client_id")
		require.NotContains(t, w.Body.String(), "party_size")
		var slots []resdto.SlotResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &slots))
		require.Len(t, slots, 1)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/mine", nil, s.token)
		require.Equal(t, http.StatusOK, w.Code)
		var mine []resdto.ReservationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &mine))
		require.Len(t, mine, 1)
		require.Equal(t, created.ID, mine[0].ID)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+created.ID.String(), nil, s.token)
		require.Equal(t, http.StatusOK, w.Code)

		// 他のクライアントの予約は見えない
		_, otherToken := authtest.CreateAndLogin(t, s.DB, s.Router, "other@example.com")
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+created.ID.String(), nil, otherToken)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *bookingSuite) TestMyReservationPages() {
	s.Run("自分の予約をページ送りで取得", func() {
		t := s.T()

		var ids []uuid.UUID
		for i := range 3 {
			w := s.create(uuid.NewString(), s.body(3, 4, s.start.Add(time.Duration(i)*3*time.Hour), 2*time.Hour))
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			var r resdto.ReservationResponse
			require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &r))
			ids = append(ids, r.ID)
		}

		var got []uuid.UUID
		path := reservationsURL + "/mine?limit=2"
		for pages := 0; path != ""; pages++ {
			require.Less(t, pages, 3, "too many pages")

			w := httptest.PerformRequest(t, s.Router, http.MethodGet, path, nil, s.token)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var page []resdto.ReservationResponse
			require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &page))
			for _, r := range page {
				got = append(got, r.ID)
			}

			path = ""
			if next := w.Header().Get(api.NextCursorHeader); next != "" {
				path = reservationsURL + "/mine?limit=2&cursor=" + url.QueryEscape(next)
			}
		}
		require.Equal(t, ids, got)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/mine?cursor=garbage", nil, s.token)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func (s *bookingSuite) TestNotifications() {
	s.Run("既読にすると未読一覧から消える", func() {
		t := s.T()

		w := s.create(uuid.NewString(), s.body(3, 4, s.start, 2*time.Hour))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/notifications/unread", nil, s.token)
		require.Equal(t, http.StatusOK, w.Code)
		var unread []resdto.NotificationResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &unread))
		require.Len(t, unread, 1)
		require.Equal(t, "reservation_confirmed", unread[0].Kind)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, "/api/notifications/"+unread[0].ID.String()+"/read", nil, s.token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/notifications/unread", nil, s.token)
		require.Equal(t, http.StatusOK, w.Code)
		unread = nil
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &unread))
		require.Empty(t, unread)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, "/api/notifications/"+uuid.NewString()+"/read", nil, s.token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *bookingSuite) TestWaiterCall() {
	s.Run("waiter calls", func() {
		t := s.T()
		callURL := "/api/waiter-calls"

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, callURL, request.CallWaiterRequest{TableID: ptr.Of(int64(4))}, s.token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var call resdto.WaiterCallResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &call))
		require.Equal(t, int64(4), call.TableID)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, callURL, request.CallWaiterRequest{}, s.token)
		require.Equal(t, http.StatusBadRequest, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, callURL, request.CallWaiterRequest{TableID: ptr.Of(int64(99))}, s.token)
		require.Equal(t, http.StatusNotFound, w.Code)

		require.Equal(t, 1, dbtest.CountRows(t, s.DB, "waiter_calls"))
	})
}
