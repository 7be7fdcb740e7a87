package table

import "errors"

var (
	ErrInvalidTableID  = errors.New("table id must be positive")
	ErrInvalidCapacity = errors.New("table capacity must be positive")
)

// Table is a dining table identified by its table number.
type Table struct {
	id       int64
	capacity int
}

func New(id int64, capacity int) (Table, error) {
	if id <= 0 {
		return Table{}, ErrInvalidTableID
	}
	if capacity <= 0 {
		return Table{}, ErrInvalidCapacity
	}
	return Table{id: id, capacity: capacity}, nil
}

func (t Table) ID() int64     { return t.id }
func (t Table) Capacity() int { return t.capacity }

// Availability annotates a table for one candidate window. It is never persisted.
type Availability struct {
	Table     Table
	Available bool
}

// FreshAvailability marks every table available, the state before any window is applied.
func FreshAvailability(tables []Table) []Availability {
	out := make([]Availability, len(tables))
	for i, t := range tables {
		out[i] = Availability{Table: t, Available: true}
	}
	return out
}

func Find(tables []Table, id int64) (Table, bool) {
	for _, t := range tables {
		if t.id == id {
			return t, true
		}
	}
	return Table{}, false
}
