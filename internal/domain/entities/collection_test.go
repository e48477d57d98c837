package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventAt(id string, start time.Time) Event {
	return Event{
		ID:    id,
		Start: start,
		Participants: []Person{
			{ID: "p1", Name: "a", DeviceID: "dev_1"},
		},
	}
}

func TestCollection_SortedByStart(t *testing.T) {
	base := time.Date(2026, 2, 18, 13, 0, 0, 0, time.UTC)
	col := Collection{
		"ev_c": eventAt("ev_c", base.Add(2*time.Hour)),
		"ev_a": eventAt("ev_a", base),
		"ev_b": eventAt("ev_b", base.Add(time.Hour)),
		// Same start as ev_a: id breaks the tie.
		"ev_d": eventAt("ev_d", base),
	}

	got := col.Sorted()
	ids := make([]string, len(got))
	for i, ev := range got {
		ids[i] = ev.ID
	}
	assert.Equal(t, []string{"ev_a", "ev_d", "ev_b", "ev_c"}, ids)
}

func TestCollection_CloneIsDeep(t *testing.T) {
	col := Collection{"ev_a": eventAt("ev_a", time.Now())}

	clone := col.Clone()
	ev := clone["ev_a"]
	ev.Participants = append(ev.Participants, Person{ID: "p2"})
	ev.Participants[0].Name = "changed"
	clone["ev_a"] = ev
	delete(clone, "ev_a")

	require.Contains(t, col, "ev_a")
	require.Len(t, col["ev_a"].Participants, 1)
	assert.Equal(t, "a", col["ev_a"].Participants[0].Name)
}

func TestCollection_CountOwnedBy(t *testing.T) {
	col := Collection{
		"ev_a": {ID: "ev_a", CreatorDeviceID: "dev_1"},
		"ev_b": {ID: "ev_b", CreatorDeviceID: "dev_1"},
		"ev_c": {ID: "ev_c", CreatorDeviceID: "dev_2"},
	}
	assert.Equal(t, 2, col.CountOwnedBy("dev_1"))
	assert.Equal(t, 1, col.CountOwnedBy("dev_2"))
	assert.Equal(t, 0, col.CountOwnedBy("dev_3"))
}

func TestEvent_LockedAt(t *testing.T) {
	deadline := time.Date(2026, 2, 18, 23, 59, 0, 0, time.UTC)
	ev := Event{Deadline: deadline}

	assert.False(t, ev.LockedAt(deadline.Add(-time.Minute)))
	assert.False(t, ev.LockedAt(deadline), "lock is strictly after the deadline")
	assert.True(t, ev.LockedAt(deadline.Add(time.Minute)))
}

func TestEvent_AtCapacity(t *testing.T) {
	two := 2
	ev := Event{MaxPeople: &two, Participants: []Person{{ID: "p1"}, {ID: "p2"}}}
	assert.True(t, ev.AtCapacity())

	ev.MaxPeople = nil
	assert.False(t, ev.AtCapacity(), "no max means never at capacity")
}
