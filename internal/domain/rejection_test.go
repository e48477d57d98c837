package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejection_AsAndIs(t *testing.T) {
	err := Reject(ReasonAtCapacity)

	r, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonAtCapacity, r.Reason)

	assert.True(t, IsRejection(err, ReasonAtCapacity))
	assert.False(t, IsRejection(err, ReasonPastDeadline))
	assert.False(t, IsRejection(errors.New("plain"), ReasonAtCapacity))
	assert.False(t, IsRejection(nil, ReasonAtCapacity))

	// Wrapped rejections still match.
	wrapped := fmt.Errorf("join: %w", err)
	assert.True(t, IsRejection(wrapped, ReasonAtCapacity))
}

func TestRejection_EveryReasonHasMessageKey(t *testing.T) {
	reasons := []Reason{
		ReasonMissingField, ReasonDetailTooLong, ReasonInvalidRange,
		ReasonDeadlineAfterStart, ReasonInvalidCapacity, ReasonCapacityRangeInverted,
		ReasonCreateQuotaExceeded, ReasonEventNotFound, ReasonPastDeadline,
		ReasonAlreadyJoinedByDevice, ReasonDuplicateParticipant, ReasonAtCapacity,
		ReasonParticipantNotFound, ReasonNotOwner, ReasonNotCreator,
	}
	for _, reason := range reasons {
		assert.NotEmpty(t, Reject(reason).MessageKey(), "reason %s", reason)
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("transact", cause)

	assert.True(t, IsStoreError(err))
	assert.True(t, IsStoreError(fmt.Errorf("outer: %w", err)))
	assert.False(t, IsStoreError(cause))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "transact")
}
