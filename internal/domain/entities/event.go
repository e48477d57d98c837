package entities

import "time"

// Event is one sign-up entry on the board.
type Event struct {
	ID       string
	Title    string
	Detail   string
	Start    time.Time
	End      time.Time
	Deadline time.Time
	// MinPeople / MaxPeople are nil when the creator left them unset.
	MinPeople *int
	MaxPeople *int
	Creator   Person
	// CreatorDeviceID is the authorization key for deletion. Redundant with
	// Creator.DeviceID but kept on the event so deletion survives the
	// creator leaving their own participant entry.
	CreatorDeviceID string
	// Participants in join order; the creator is the first entry.
	Participants []Person
	CreatedAt    time.Time
	// ImageRef is an optional reference URL to an attached image.
	ImageRef string
}

// LockedAt reports whether the event is past its sign-up deadline at now.
// Lock gates join and leave but never delete.
func (e *Event) LockedAt(now time.Time) bool {
	return now.After(e.Deadline)
}

// AtCapacity reports whether the participant list has reached MaxPeople.
func (e *Event) AtCapacity() bool {
	return e.MaxPeople != nil && len(e.Participants) >= *e.MaxPeople
}

// FindParticipant returns the participant with the given id, if present.
func (e *Event) FindParticipant(personID string) (Person, bool) {
	for _, p := range e.Participants {
		if p.ID == personID {
			return p, true
		}
	}
	return Person{}, false
}

// HasDevice reports whether any participant was added from the given device.
func (e *Event) HasDevice(deviceID string) bool {
	for _, p := range e.Participants {
		if p.DeviceID == deviceID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy; mutating the copy's participant list does not
// touch the original.
func (e Event) Clone() Event {
	out := e
	if e.MinPeople != nil {
		v := *e.MinPeople
		out.MinPeople = &v
	}
	if e.MaxPeople != nil {
		v := *e.MaxPeople
		out.MaxPeople = &v
	}
	out.Participants = make([]Person, len(e.Participants))
	copy(out.Participants, e.Participants)
	return out
}
