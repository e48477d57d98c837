package output

import (
	"context"

	"mixerboard/internal/domain/entities"
)

// Mutator computes the next collection from the current one. Returning an
// error aborts the surrounding transaction without committing; the error is
// propagated to the caller unchanged.
type Mutator func(entities.Collection) (entities.Collection, error)

// EventStore is the persistence contract for the event collection.
type EventStore interface {
	// ReadAll returns the current collection.
	ReadAll(ctx context.Context) (entities.Collection, error)
	// Transact atomically applies mutator to the latest collection and
	// persists the result, retrying internally on conflicting concurrent
	// writes. It returns the committed collection.
	Transact(ctx context.Context, mutator Mutator) (entities.Collection, error)
}

// WatchableStore is an EventStore that can push change notifications.
// Only the shared deployment mode provides one.
type WatchableStore interface {
	EventStore
	// Subscribe registers onChange to be invoked with the fresh collection
	// after each successful remote commit. The returned function cancels
	// the subscription.
	Subscribe(ctx context.Context, onChange func(entities.Collection)) (func(), error)
}
