package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTable     = errors.New("reservation must reference a table")
	ErrInvalidPartySize = errors.New("party size must be positive")
)

// Reservation is immutable once created.
type Reservation struct {
	id        uuid.UUID
	tableID   int64
	clientID  uuid.UUID
	slot      TimeSlot
	partySize int
	createdAt time.Time
}

func New(tableID int64, clientID uuid.UUID, slot TimeSlot, partySize int, now time.Time) (*Reservation, error) {
	if tableID <= 0 {
		return nil, ErrInvalidTable
	}
	if partySize <= 0 {
		return nil, ErrInvalidPartySize
	}
	return &Reservation{
		id:        uuid.New(),
		tableID:   tableID,
		clientID:  clientID,
		slot:      slot,
		partySize: partySize,
		createdAt: now,
	}, nil
}

// Reconstruct rebuilds a stored or fetched reservation. clientID and partySize
// are zero when the source does not expose them.
func Reconstruct(id uuid.UUID, tableID int64, clientID uuid.UUID, slot TimeSlot, partySize int, createdAt time.Time) Reservation {
	return Reservation{
		id:        id,
		tableID:   tableID,
		clientID:  clientID,
		slot:      slot,
		partySize: partySize,
		createdAt: createdAt,
	}
}

func (r Reservation) ID() uuid.UUID        { return r.id }
func (r Reservation) TableID() int64       { return r.tableID }
func (r Reservation) ClientID() uuid.UUID  { return r.clientID }
func (r Reservation) Slot() TimeSlot       { return r.slot }
func (r Reservation) Start() time.Time     { return r.slot.start }
func (r Reservation) End() time.Time       { return r.slot.end }
func (r Reservation) PartySize() int       { return r.partySize }
func (r Reservation) CreatedAt() time.Time { return r.createdAt }
