// Package engine holds the participation decision logic: pure functions from
// (collection snapshot, operation, device id) to (next snapshot, outcome).
// Committing the next snapshot is the caller's job, which keeps every
// operation safe to recompute when an optimistic transaction retries.
package engine

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"mixerboard/internal/domain"
	"mixerboard/internal/domain/entities"
)

// MaxDetailLength is the free-text detail limit, counted in runes.
const MaxDetailLength = 100

// Policy enumerates the optional behaviors that varied across deployments.
type Policy struct {
	// RequireOneJoinPerDevice blocks a second join from the same device on
	// one event, regardless of the stated name/university/grade/part.
	RequireOneJoinPerDevice bool
	// PerDeviceCreateQuota caps how many events one device may create.
	// Zero means unlimited. Enforced inside the same transaction as the
	// insert; see CreateEvent.
	PerDeviceCreateQuota int
	// AllowImages enables the optional image attachment.
	AllowImages bool
}

// Engine applies participation operations to collection snapshots.
// It holds no mutable state: the clock and id sources are injected so that
// tests and transaction retries are deterministic.
type Engine struct {
	policy      Policy
	now         func() time.Time
	newEventID  func() string
	newPersonID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for deadline checks and
// creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithEventIDs overrides the event id source.
func WithEventIDs(fn func() string) Option {
	return func(e *Engine) { e.newEventID = fn }
}

// WithPersonIDs overrides the person id source.
func WithPersonIDs(fn func() string) Option {
	return func(e *Engine) { e.newPersonID = fn }
}

// New creates an Engine with the given policy. Default id sources: ULID for
// events (entropy + timestamp, negligible collision odds across independent
// clients), UUID for participant entries.
func New(policy Policy, opts ...Option) *Engine {
	e := &Engine{
		policy: policy,
		now:    time.Now,
		newEventID: func() string {
			return "ev_" + strings.ToLower(ulid.Make().String())
		},
		newPersonID: func() string {
			return uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the active policy flags.
func (e *Engine) Policy() Policy {
	return e.policy
}

// PersonInput is the submitted profile for a creator or joiner.
type PersonInput struct {
	Name       string
	University string
	Grade      string
	Part       string
}

func (in PersonInput) normalized() PersonInput {
	in.Name = strings.TrimSpace(in.Name)
	return in
}

func (in PersonInput) incomplete() bool {
	return in.Name == "" || in.University == "" || in.Grade == "" || in.Part == ""
}

// CreateInput is the submitted form for a new event.
type CreateInput struct {
	Title    string
	Detail   string
	Start    time.Time
	End      time.Time
	Deadline time.Time
	// MinPeople / MaxPeople are nil when unset.
	MinPeople *int
	MaxPeople *int
	Creator   PersonInput
	// ImageRef is ignored unless the policy allows images.
	ImageRef string
}

// CreateEvent validates the input in order (first failure wins), assigns
// fresh event and person ids, and inserts the event with the creator as the
// sole initial participant. When a per-device create quota is configured,
// the ownership count is checked against the same snapshot the insert goes
// into, so a caller running this inside a store transaction gets the quota
// enforced race-free.
func (e *Engine) CreateEvent(col entities.Collection, in CreateInput, deviceID string) (entities.Collection, entities.Event, error) {
	title := strings.TrimSpace(in.Title)
	detail := strings.TrimSpace(in.Detail)
	creator := in.Creator.normalized()

	if title == "" || in.Start.IsZero() || in.End.IsZero() || in.Deadline.IsZero() ||
		creator.incomplete() || deviceID == "" {
		return col, entities.Event{}, domain.Reject(domain.ReasonMissingField)
	}
	if utf8.RuneCountInString(detail) > MaxDetailLength {
		return col, entities.Event{}, domain.Reject(domain.ReasonDetailTooLong)
	}
	if !in.End.After(in.Start) {
		return col, entities.Event{}, domain.Reject(domain.ReasonInvalidRange)
	}
	// Deadline must not be after the scheduled start; equal is fine.
	if in.Deadline.After(in.Start) {
		return col, entities.Event{}, domain.Reject(domain.ReasonDeadlineAfterStart)
	}
	if in.MinPeople != nil && *in.MinPeople < 1 {
		return col, entities.Event{}, domain.Reject(domain.ReasonInvalidCapacity)
	}
	if in.MaxPeople != nil && *in.MaxPeople < 1 {
		return col, entities.Event{}, domain.Reject(domain.ReasonInvalidCapacity)
	}
	if in.MinPeople != nil && in.MaxPeople != nil && *in.MinPeople > *in.MaxPeople {
		return col, entities.Event{}, domain.Reject(domain.ReasonCapacityRangeInverted)
	}
	if q := e.policy.PerDeviceCreateQuota; q > 0 && col.CountOwnedBy(deviceID) >= q {
		return col, entities.Event{}, domain.Reject(domain.ReasonCreateQuotaExceeded)
	}

	imageRef := in.ImageRef
	if !e.policy.AllowImages {
		imageRef = ""
	}

	first := entities.Person{
		ID:         e.newPersonID(),
		Name:       creator.Name,
		University: creator.University,
		Grade:      creator.Grade,
		Part:       creator.Part,
		DeviceID:   deviceID,
	}
	ev := entities.Event{
		ID:              e.newEventID(),
		Title:           title,
		Detail:          detail,
		Start:           in.Start,
		End:             in.End,
		Deadline:        in.Deadline,
		MinPeople:       copyCount(in.MinPeople),
		MaxPeople:       copyCount(in.MaxPeople),
		Creator:         first,
		CreatorDeviceID: deviceID,
		Participants:    []entities.Person{first},
		CreatedAt:       e.now(),
		ImageRef:        imageRef,
	}

	next := col.Clone()
	next[ev.ID] = ev
	return next, ev, nil
}

// JoinEvent appends a participant to the event. Checked in order: the event
// exists, its deadline has not passed, the device has not already joined
// (policy), no existing participant has the exact same profile, and the
// event is not at capacity.
func (e *Engine) JoinEvent(col entities.Collection, eventID string, in PersonInput, deviceID string) (entities.Collection, entities.Person, error) {
	in = in.normalized()
	if in.incomplete() || deviceID == "" {
		return col, entities.Person{}, domain.Reject(domain.ReasonMissingField)
	}

	ev, ok := col[eventID]
	if !ok {
		return col, entities.Person{}, domain.Reject(domain.ReasonEventNotFound)
	}
	if ev.LockedAt(e.now()) {
		return col, entities.Person{}, domain.Reject(domain.ReasonPastDeadline)
	}

	if e.policy.RequireOneJoinPerDevice && ev.HasDevice(deviceID) {
		return col, entities.Person{}, domain.Reject(domain.ReasonAlreadyJoinedByDevice)
	}
	candidate := entities.Person{
		Name:       in.Name,
		University: in.University,
		Grade:      in.Grade,
		Part:       in.Part,
	}
	for _, p := range ev.Participants {
		if p.SameProfile(candidate) {
			return col, entities.Person{}, domain.Reject(domain.ReasonDuplicateParticipant)
		}
	}
	if ev.AtCapacity() {
		return col, entities.Person{}, domain.Reject(domain.ReasonAtCapacity)
	}

	candidate.ID = e.newPersonID()
	candidate.DeviceID = deviceID

	next := col.Clone()
	updated := next[eventID]
	updated.Participants = append(updated.Participants, candidate)
	next[eventID] = updated
	return next, candidate, nil
}

// LeaveEvent removes a participant. Self-service only: the requesting device
// must match the one that joined. Departure is never blocked by a minimum
// count; an event may drop below its stated minimum or to zero participants.
func (e *Engine) LeaveEvent(col entities.Collection, eventID, personID, deviceID string) (entities.Collection, error) {
	ev, ok := col[eventID]
	if !ok {
		return col, domain.Reject(domain.ReasonEventNotFound)
	}
	if ev.LockedAt(e.now()) {
		return col, domain.Reject(domain.ReasonPastDeadline)
	}
	p, ok := ev.FindParticipant(personID)
	if !ok {
		return col, domain.Reject(domain.ReasonParticipantNotFound)
	}
	if p.DeviceID != deviceID {
		return col, domain.Reject(domain.ReasonNotOwner)
	}

	next := col.Clone()
	updated := next[eventID]
	kept := updated.Participants[:0]
	for _, q := range updated.Participants {
		if q.ID != personID {
			kept = append(kept, q)
		}
	}
	updated.Participants = kept
	next[eventID] = updated
	return next, nil
}

// DeleteEvent removes the event and all its participant records. Only the
// creating device may delete, but the deadline never blocks it. The removed
// event is returned so the caller can clean up an attached image.
func (e *Engine) DeleteEvent(col entities.Collection, eventID, deviceID string) (entities.Collection, entities.Event, error) {
	ev, ok := col[eventID]
	if !ok {
		return col, entities.Event{}, domain.Reject(domain.ReasonEventNotFound)
	}
	if ev.CreatorDeviceID != deviceID {
		return col, entities.Event{}, domain.Reject(domain.ReasonNotCreator)
	}

	next := col.Clone()
	removed := next[eventID]
	delete(next, eventID)
	return next, removed, nil
}

func copyCount(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
