package queries

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"restaurant-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	CursorVersionV1  = "v1"
)

var ErrInvalidCursor = errs.New("invalid cursor")

// Keyset is the (start, id) position of the last row of a page. Reservation
// history is ordered by slot start, then id.
type Keyset struct {
	Start time.Time
	ID    uuid.UUID
}

// Page requests one page of a listing; an empty Cursor means the first page.
type Page struct {
	Cursor string
	Limit  int
}

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeCursor(k Keyset) string {
	cursorData := CursorVersionV1 + ":" + strconv.FormatInt(k.Start.UnixMicro(), 10) + "-" + k.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(cursorData))
}

// DecodeCursor returns nil for an empty cursor.
func DecodeCursor(cursor string) (*Keyset, error) {
	if cursor == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "decode cursor"), ErrInvalidCursor)
	}
	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return nil, errs.Mark(errs.New("unknown cursor version"), ErrInvalidCursor)
	}

	micros, idStr, ok := strings.Cut(payload, "-")
	if !ok {
		return nil, errs.Mark(errs.New("invalid cursor format: expected '<micros>-<uuid>'"), ErrInvalidCursor)
	}
	timestamp, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "invalid timestamp"), ErrInvalidCursor)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "invalid UUID"), ErrInvalidCursor)
	}

	return &Keyset{Start: time.UnixMicro(timestamp).UTC(), ID: id}, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
