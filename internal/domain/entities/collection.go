package entities

import "sort"

// Collection is the full event set keyed by event id. It is the snapshot
// unit: engine operations take one in and return the next one.
type Collection map[string]Event

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for id, ev := range c {
		out[id] = ev.Clone()
	}
	return out
}

// Sorted materializes the collection as a display sequence ordered by start
// timestamp, ties broken by id for a stable order.
func (c Collection) Sorted() []Event {
	out := make([]Event, 0, len(c))
	for _, ev := range c {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CountOwnedBy returns how many events were created from the given device.
func (c Collection) CountOwnedBy(deviceID string) int {
	n := 0
	for _, ev := range c {
		if ev.CreatorDeviceID == deviceID {
			n++
		}
	}
	return n
}
