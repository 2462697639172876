// Package state holds the client-side state tree: a tagged union of events,
// pure fold functions applying them, and the Store that composes the auth and
// product folds under fixed keys.
package state

import (
	"context"
	"sync/atomic"
)

// Event is a state-transition request. The concrete types in this package
// form a closed union; folds ignore events belonging to the other subsystem.
type Event interface {
	event()
}

// Dispatch delivers a single event to the store.
type Dispatch func(Event)

// Task is an asynchronous operation that receives a dispatch capability and
// emits events as it progresses. Whether a failure is also returned to the
// caller (instead of only dispatched) is part of each operation's contract.
type Task func(ctx context.Context, dispatch Dispatch) error

var requestCounter atomic.Uint64

// NextRequestID mints a monotonically increasing id used to stamp a request
// event and its completion. Folds drop completions whose id is not the
// newest seen for their subsystem, so a slow stale response can never
// overwrite the result of a request issued after it.
func NextRequestID() uint64 {
	return requestCounter.Add(1)
}
