package domain

import (
	"errors"
	"fmt"
)

// Reason categorizes why an operation was rejected.
type Reason string

const (
	// Create validation, checked in order. First failure wins.
	ReasonMissingField          Reason = "MISSING_FIELD"
	ReasonDetailTooLong         Reason = "DETAIL_TOO_LONG"
	ReasonInvalidRange          Reason = "INVALID_RANGE"
	ReasonDeadlineAfterStart    Reason = "DEADLINE_AFTER_START"
	ReasonInvalidCapacity       Reason = "INVALID_CAPACITY"
	ReasonCapacityRangeInverted Reason = "CAPACITY_RANGE_INVERTED"
	ReasonCreateQuotaExceeded   Reason = "CREATE_QUOTA_EXCEEDED"

	// Join / leave / delete.
	ReasonEventNotFound         Reason = "EVENT_NOT_FOUND"
	ReasonPastDeadline          Reason = "PAST_DEADLINE"
	ReasonAlreadyJoinedByDevice Reason = "ALREADY_JOINED_BY_DEVICE"
	ReasonDuplicateParticipant  Reason = "DUPLICATE_PARTICIPANT"
	ReasonAtCapacity            Reason = "AT_CAPACITY"
	ReasonParticipantNotFound   Reason = "PARTICIPANT_NOT_FOUND"
	ReasonNotOwner              Reason = "NOT_OWNER"
	ReasonNotCreator            Reason = "NOT_CREATOR"
)

// Rejection is the expected-failure outcome of an engine operation.
// It is a typed result, not an exceptional condition: the engine returns it
// for every validation or authorization failure and never partially applies
// the operation.
type Rejection struct {
	Reason Reason
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("rejected: %s", r.Reason)
}

// MessageKey returns the i18n key for the user-facing message.
func (r *Rejection) MessageKey() string {
	return messageKeys[r.Reason]
}

var messageKeys = map[Reason]string{
	ReasonMissingField:          "reject.missing_field",
	ReasonDetailTooLong:         "reject.detail_too_long",
	ReasonInvalidRange:          "reject.invalid_range",
	ReasonDeadlineAfterStart:    "reject.deadline_after_start",
	ReasonInvalidCapacity:       "reject.invalid_capacity",
	ReasonCapacityRangeInverted: "reject.capacity_range_inverted",
	ReasonCreateQuotaExceeded:   "reject.create_quota_exceeded",
	ReasonEventNotFound:         "reject.event_not_found",
	ReasonPastDeadline:          "reject.past_deadline",
	ReasonAlreadyJoinedByDevice: "reject.already_joined_by_device",
	ReasonDuplicateParticipant:  "reject.duplicate_participant",
	ReasonAtCapacity:            "reject.at_capacity",
	ReasonParticipantNotFound:   "reject.participant_not_found",
	ReasonNotOwner:              "reject.not_owner",
	ReasonNotCreator:            "reject.not_creator",
}

// Reject builds a Rejection for the given reason.
func Reject(reason Reason) *Rejection {
	return &Rejection{Reason: reason}
}

// AsRejection unwraps err into a Rejection, if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// IsRejection reports whether err is a Rejection with the given reason.
func IsRejection(err error, reason Reason) bool {
	r, ok := AsRejection(err)
	return ok && r.Reason == reason
}
