package reservation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"restaurant-booking/internal/domain/table"
)

// Request is the candidate booking as the user entered it.
type Request struct {
	TableID   *int64
	Start     time.Time
	End       time.Time
	PartySize string
}

func (r Request) Window() Window {
	return Window{Start: r.Start, End: r.End}
}

// Snapshot is what the validator knows about the restaurant at validation time.
type Snapshot struct {
	Tables       []table.Table
	Reservations []Reservation
}

type Verdict struct {
	Accepted     bool
	Reason       Reason
	Message      string
	MinPartySize int
	MaxPartySize int
	// PartySize is the parsed party size, set on acceptance.
	PartySize int
}

func (v Verdict) Err() error {
	if v.Accepted {
		return nil
	}
	return &ValidationError{
		Reason:       v.Reason,
		Message:      v.Message,
		MinPartySize: v.MinPartySize,
		MaxPartySize: v.MaxPartySize,
	}
}

func reject(reason Reason) Verdict {
	return Verdict{Reason: reason, Message: reasonErrors[reason].Error()}
}

// Validate applies the booking rules in order; the first failure wins.
// now is the single validation instant for every time-based rule.
func Validate(req Request, snap Snapshot, now time.Time) Verdict {
	partySize, ok := parsePartySize(req.PartySize)
	if req.TableID == nil || req.Start.IsZero() || req.End.IsZero() || !ok {
		return reject(ReasonIncomplete)
	}

	if !MeetsLeadTime(req.Start, now) {
		return reject(ReasonInsufficientLeadTime)
	}

	if !req.Start.Before(req.End) {
		return reject(ReasonInvalidOrder)
	}

	tbl, found := table.Find(snap.Tables, *req.TableID)
	if !found || !IsTableAvailable(tbl.ID(), snap.Reservations, req.Window()) {
		return reject(ReasonTableUnavailable)
	}

	lo, hi := PartySizeBounds(tbl.Capacity())
	if partySize < lo || partySize > hi {
		return Verdict{
			Reason:       ReasonPartySizeOutOfRange,
			Message:      fmt.Sprintf("party size must be between %d and %d for this table", lo, hi),
			MinPartySize: lo,
			MaxPartySize: hi,
		}
	}

	return Verdict{Accepted: true, PartySize: partySize}
}

func parsePartySize(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
