package reservation

import "restaurant-booking/internal/domain/table"

// ComputeAvailability marks a table unavailable iff some reservation on it
// overlaps window. It never mutates its inputs. With an incomplete window the
// previous annotations are returned unchanged.
func ComputeAvailability(tables []table.Availability, reservations []Reservation, window Window) []table.Availability {
	out := make([]table.Availability, len(tables))
	copy(out, tables)
	if !window.IsComplete() {
		return out
	}

	busy := make(map[int64]bool, len(reservations))
	for _, r := range reservations {
		if window.Overlaps(r.slot) {
			busy[r.tableID] = true
		}
	}
	for i := range out {
		out[i].Available = !busy[out[i].Table.ID()]
	}
	return out
}

// IsTableAvailable answers the single-table question without building the full snapshot.
func IsTableAvailable(tableID int64, reservations []Reservation, window Window) bool {
	for _, r := range reservations {
		if r.tableID == tableID && window.Overlaps(r.slot) {
			return false
		}
	}
	return true
}
