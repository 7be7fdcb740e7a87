package waiter

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrTableRequired = errors.New("a table number is required to call a waiter")

// Call asks staff to come to a table on behalf of a client.
type Call struct {
	id        uuid.UUID
	clientID  uuid.UUID
	tableID   int64
	createdAt time.Time
}

func NewCall(clientID uuid.UUID, tableID *int64, now time.Time) (*Call, error) {
	if tableID == nil || *tableID <= 0 {
		return nil, ErrTableRequired
	}
	return &Call{
		id:        uuid.New(),
		clientID:  clientID,
		tableID:   *tableID,
		createdAt: now,
	}, nil
}

func (c *Call) ID() uuid.UUID        { return c.id }
func (c *Call) ClientID() uuid.UUID  { return c.clientID }
func (c *Call) TableID() int64       { return c.tableID }
func (c *Call) CreatedAt() time.Time { return c.createdAt }
