package booking

import (
	"time"

	"restaurant-booking/internal/domain/reservation"
	"restaurant-booking/internal/domain/table"
	"restaurant-booking/internal/pkg/errs"
)

type State int

const (
	StateClosed State = iota
	StateLoading
	StateEditing
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateLoading:
		return "loading"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

var (
	ErrAlreadyOpen   = errs.New("booking session already open")
	ErrNotEditing    = errs.New("booking session is not editable")
	ErrSessionClosed = errs.New("booking session closed")
	ErrSuperseded    = errs.New("fetch superseded by a newer one")
	ErrUnknownTable  = errs.New("unknown table")
)

// DefaultPartySize is what a fresh candidate starts with.
const DefaultPartySize = "1"

// Candidate is the in-progress booking the user is editing.
type Candidate struct {
	TableID   *int64
	Start     time.Time
	End       time.Time
	PartySize string

	HasError bool
	Reason   reservation.Reason
	Message  string
	// Set with party_size_out_of_range so the caller can show the accepted range.
	MinPartySize int
	MaxPartySize int
}

func (c Candidate) request() reservation.Request {
	return reservation.Request{
		TableID:   c.TableID,
		Start:     c.Start,
		End:       c.End,
		PartySize: c.PartySize,
	}
}

func (c *Candidate) clearError() {
	c.HasError = false
	c.Reason = ""
	c.Message = ""
	c.MinPartySize = 0
	c.MaxPartySize = 0
}

func (c *Candidate) setError(ve *reservation.ValidationError) {
	c.HasError = true
	c.Reason = ve.Reason
	c.Message = ve.Message
	c.MinPartySize = ve.MinPartySize
	c.MaxPartySize = ve.MaxPartySize
}

// View is a copy of the session that callers may keep and render.
type View struct {
	State     State
	Candidate Candidate
	Tables    []table.Availability
}

// attempt binds an idempotency key to the exact request it was first sent with.
type attempt struct {
	tableID   int64
	partySize int
	start     time.Time
	end       time.Time
}

func (a attempt) same(b attempt) bool {
	return a.tableID == b.tableID && a.partySize == b.partySize &&
		a.start.Equal(b.start) && a.end.Equal(b.end)
}
