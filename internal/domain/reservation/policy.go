package reservation

import "time"

const (
	// LeadTime is the minimum gap between validation and the reservation start. The bound is inclusive.
	LeadTime = 3 * time.Hour
	// CapacitySlack is how far below capacity a party may be and still book the table.
	CapacitySlack = 2
	// DefaultDuration is the span given to a fresh window and to an end pushed forward by a start edit.
	DefaultDuration = 2 * time.Hour
)

// PartySizeBounds returns the inclusive party-size range a table accepts.
// The lower bound is not clamped at 1; a non-positive party never reaches this check.
func PartySizeBounds(capacity int) (lo, hi int) {
	return capacity - CapacitySlack, capacity
}

func MeetsLeadTime(start, now time.Time) bool {
	return !start.Before(now.Add(LeadTime))
}
