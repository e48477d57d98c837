package database

import (
	"encoding/json"
	"fmt"
	"time"

	"mixerboard/internal/domain/entities"
)

// Persisted record shape, store-agnostic: timestamps as ISO-8601 strings,
// counts as integers or absent, participant order preserved. Both the
// PostgreSQL and SQLite adapters persist one of these per event.

type personRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	University string `json:"univ"`
	Grade      string `json:"grade"`
	Part       string `json:"part"`
	DeviceID   string `json:"deviceId"`
}

type eventRecord struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Detail          string         `json:"detail"`
	Start           string         `json:"startISO"`
	End             string         `json:"endISO"`
	Deadline        string         `json:"deadlineISO"`
	MinPeople       *int           `json:"minPeople,omitempty"`
	MaxPeople       *int           `json:"maxPeople,omitempty"`
	Creator         personRecord   `json:"creator"`
	CreatorDeviceID string         `json:"creatorDeviceId"`
	Participants    []personRecord `json:"participants"`
	CreatedAt       string         `json:"createdAtISO"`
	ImageRef        string         `json:"imageRef,omitempty"`
}

func personToRecord(p entities.Person) personRecord {
	return personRecord{
		ID:         p.ID,
		Name:       p.Name,
		University: p.University,
		Grade:      p.Grade,
		Part:       p.Part,
		DeviceID:   p.DeviceID,
	}
}

func personFromRecord(r personRecord) entities.Person {
	return entities.Person{
		ID:         r.ID,
		Name:       r.Name,
		University: r.University,
		Grade:      r.Grade,
		Part:       r.Part,
		DeviceID:   r.DeviceID,
	}
}

func eventToRecord(e entities.Event) eventRecord {
	participants := make([]personRecord, len(e.Participants))
	for i, p := range e.Participants {
		participants[i] = personToRecord(p)
	}
	return eventRecord{
		ID:              e.ID,
		Title:           e.Title,
		Detail:          e.Detail,
		Start:           e.Start.Format(time.RFC3339Nano),
		End:             e.End.Format(time.RFC3339Nano),
		Deadline:        e.Deadline.Format(time.RFC3339Nano),
		MinPeople:       e.MinPeople,
		MaxPeople:       e.MaxPeople,
		Creator:         personToRecord(e.Creator),
		CreatorDeviceID: e.CreatorDeviceID,
		Participants:    participants,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339Nano),
		ImageRef:        e.ImageRef,
	}
}

func eventFromRecord(r eventRecord) (entities.Event, error) {
	start, err := parseISO("startISO", r.Start)
	if err != nil {
		return entities.Event{}, err
	}
	end, err := parseISO("endISO", r.End)
	if err != nil {
		return entities.Event{}, err
	}
	deadline, err := parseISO("deadlineISO", r.Deadline)
	if err != nil {
		return entities.Event{}, err
	}
	createdAt, err := parseISO("createdAtISO", r.CreatedAt)
	if err != nil {
		return entities.Event{}, err
	}

	participants := make([]entities.Person, len(r.Participants))
	for i, p := range r.Participants {
		participants[i] = personFromRecord(p)
	}
	return entities.Event{
		ID:              r.ID,
		Title:           r.Title,
		Detail:          r.Detail,
		Start:           start,
		End:             end,
		Deadline:        deadline,
		MinPeople:       r.MinPeople,
		MaxPeople:       r.MaxPeople,
		Creator:         personFromRecord(r.Creator),
		CreatorDeviceID: r.CreatorDeviceID,
		Participants:    participants,
		CreatedAt:       createdAt,
		ImageRef:        r.ImageRef,
	}, nil
}

func parseISO(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode event: %s: %w", field, err)
	}
	return t, nil
}

// encodeEvent serializes one event to its persisted JSON document.
func encodeEvent(e entities.Event) ([]byte, error) {
	doc, err := json.Marshal(eventToRecord(e))
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.ID, err)
	}
	return doc, nil
}

// decodeEvent parses one persisted JSON document.
func decodeEvent(doc []byte) (entities.Event, error) {
	var r eventRecord
	if err := json.Unmarshal(doc, &r); err != nil {
		return entities.Event{}, fmt.Errorf("decode event: %w", err)
	}
	return eventFromRecord(r)
}
