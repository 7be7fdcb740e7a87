package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	domnotif "restaurant-booking/internal/domain/notification"
	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/domain/table"
	reqdto "restaurant-booking/internal/handler/dto/request"
	resdto "restaurant-booking/internal/handler/dto/response"
	"restaurant-booking/internal/pkg/errs"
	"restaurant-booking/internal/pkg/ptr"
	"restaurant-booking/internal/usecase/booking"
	"restaurant-booking/internal/usecase/notification"

	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

var (
	ErrNotSignedIn    = errs.New("not signed in")
	ErrUnauthorized   = errs.New("unauthorized")
	ErrClientMismatch = errs.New("client id does not match the signed-in client")
)

// StatusError is a non-2xx answer that carries no rejection reason.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Code, e.Message)
}

// Client talks to the booking REST API as a signed-in guest. It implements
// booking.Backend and notification.Source.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu       sync.RWMutex
	token    string
	clientID uuid.UUID
}

var (
	_ booking.Backend     = (*Client)(nil)
	_ notification.Source = (*Client)(nil)
)

func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "apiclient"),
	}
}

// Login signs in and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*resdto.ClientResponse, error) {
	var res resdto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", reqdto.LoginRequest{Email: email, Password: password}, nil, &res, false)
	if err != nil {
		return nil, err
	}
	if res.Client == nil || res.AccessToken == "" {
		return nil, errs.New("login response without client or token")
	}

	c.mu.Lock()
	c.token = res.AccessToken
	c.clientID = res.Client.ID
	c.mu.Unlock()

	c.logger.Info("signed in", "client_id", res.Client.ID.String())
	return res.Client, nil
}

func (c *Client) ClientID() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID
}

func (c *Client) FetchTables(ctx context.Context) ([]table.Table, error) {
	var res []resdto.TableResponse
	if err := c.do(ctx, http.MethodGet, "/api/tables", nil, nil, &res, true); err != nil {
		return nil, err
	}

	tables := make([]table.Table, 0, len(res))
	for _, r := range res {
		t, err := table.New(r.ID, r.Capacity)
		if err != nil {
			return nil, errs.Wrapf(err, "table %d", r.ID)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// FetchReservations returns occupied slots only; guest and party size are not exposed.
func (c *Client) FetchReservations(ctx context.Context) ([]reservation.Reservation, error) {
	var res []resdto.SlotResponse
	if err := c.do(ctx, http.MethodGet, "/api/reservations", nil, nil, &res, true); err != nil {
		return nil, err
	}

	out := make([]reservation.Reservation, 0, len(res))
	for _, r := range res {
		slot, err := reservation.NewTimeSlot(r.Start, r.End)
		if err != nil {
			return nil, errs.Wrapf(err, "reservation %s", r.ID)
		}
		out = append(out, reservation.Reconstruct(r.ID, r.TableID, uuid.Nil, slot, 0, time.Time{}))
	}
	return out, nil
}

func (c *Client) CreateReservation(ctx context.Context, params booking.CreateParams) (*booking.Confirmation, error) {
	if params.ClientID != uuid.Nil && params.ClientID != c.ClientID() {
		return nil, ErrClientMismatch
	}

	body := reqdto.CreateReservationRequest{
		TableID:   ptr.Of(params.TableID),
		Start:     ptr.Of(params.Start),
		End:       ptr.Of(params.End),
		PartySize: ptr.Of(params.PartySize),
	}
	headers := map[string]string{idempotencyKeyHeader: params.IdempotencyKey.String()}

	var res resdto.ReservationResponse
	if err := c.do(ctx, http.MethodPost, "/api/reservations", body, headers, &res, true); err != nil {
		return nil, err
	}

	return &booking.Confirmation{
		ReservationID: res.ID,
		TableID:       res.TableID,
		PartySize:     res.PartySize,
		Start:         res.Start,
		End:           res.End,
		Replayed:      res.Replayed,
	}, nil
}

// FetchUnreadNotifications only serves the signed-in client; the API scopes by token.
func (c *Client) FetchUnreadNotifications(ctx context.Context, clientID uuid.UUID) ([]domnotif.Notification, error) {
	if clientID != c.ClientID() {
		return nil, ErrClientMismatch
	}

	var res []resdto.NotificationResponse
	if err := c.do(ctx, http.MethodGet, "/api/notifications/unread", nil, nil, &res, true); err != nil {
		return nil, err
	}

	out := make([]domnotif.Notification, 0, len(res))
	for _, r := range res {
		out = append(out, domnotif.Notification{
			ID:        r.ID,
			ClientID:  clientID,
			Kind:      domnotif.Kind(r.Kind),
			Message:   r.Message,
			Status:    domnotif.Status(r.Status),
			IsRead:    r.IsRead,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPatch, "/api/notifications/"+id.String()+"/read", nil, nil, nil, true)
}

func (c *Client) CallWaiter(ctx context.Context, tableID *int64) (*resdto.WaiterCallResponse, error) {
	var res resdto.WaiterCallResponse
	if err := c.do(ctx, http.MethodPost, "/api/waiter-calls", reqdto.CallWaiterRequest{TableID: tableID}, nil, &res, true); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, headers map[string]string, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errs.Wrap(err, "encode request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errs.Wrap(err, "build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if authed {
		c.mu.RLock()
		token := c.token
		c.mu.RUnlock()
		if token == "" {
			return ErrNotSignedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrapf(err, "read %s %s", method, path)
	}

	if resp.StatusCode >= 300 {
		c.logger.Debug("api error", "method", method, "path", path, "status", resp.StatusCode)
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errs.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error"`
	Detail json.RawMessage `json:"detail"`
}

type partySizeDetail struct {
	MinPartySize int `json:"min_party_size"`
	MaxPartySize int `json:"max_party_size"`
}

// decodeError turns a 4xx with a known reason into *reservation.ValidationError.
// Everything else, 5xx included, stays a plain error so callers treat it as unreachable.
func decodeError(status int, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)

	if status < 500 {
		if reason, ok := reservation.ParseReason(body.Error.Reason); ok {
			ve := reservation.NewValidationError(reason)
			if body.Error.Message != "" {
				ve.Message = body.Error.Message
			}
			if reason == reservation.ReasonPartySizeOutOfRange && len(body.Detail) > 0 {
				var d partySizeDetail
				if json.Unmarshal(body.Detail, &d) == nil {
					ve.MinPartySize, ve.MaxPartySize = d.MinPartySize, d.MaxPartySize
				}
			}
			return ve
		}
	}

	statusErr := &StatusError{Code: status, Message: body.Error.Message}
	if status == http.StatusUnauthorized {
		return errs.Mark(statusErr, ErrUnauthorized)
	}
	return statusErr
}
