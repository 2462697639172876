package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// RootState composes the two reducers' slices under fixed keys. The key set
// never changes after startup.
type RootState struct {
	Auth    AuthState    `json:"auth"`
	Product ProductState `json:"product"`
}

// Subscriber receives a snapshot of the state after every dispatch.
type Subscriber func(RootState)

// Store is the single state container. It is an explicit object handed to
// consumers, not a package global: construct one with New and pass it down.
//
// Dispatch folds events synchronously under a mutex, so no two reducer
// invocations ever interleave. Tasks run on the caller's goroutine and
// suspend only at network boundaries.
type Store struct {
	mu      sync.Mutex
	state   RootState
	subs    map[int]Subscriber
	nextSub int
	log     zerolog.Logger
}

// New creates a store in the unauthenticated default state, with the token
// field seeded from persisted storage (pass "" when nothing is saved).
func New(initialToken string, log zerolog.Logger) *Store {
	return &Store{
		state: RootState{Auth: AuthState{Token: initialToken}},
		subs:  make(map[int]Subscriber),
		log:   log,
	}
}

// Dispatch applies one event to both slices and notifies subscribers with
// the resulting snapshot. Safe for concurrent use; events are applied in
// lock-acquisition order.
func (s *Store) Dispatch(evt Event) {
	s.mu.Lock()
	s.state.Auth = FoldAuth(s.state.Auth, evt)
	s.state.Product = FoldProduct(s.state.Product, evt)
	snapshot := s.state
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.log.Debug().Str("event", fmt.Sprintf("%T", evt)).Msg("event dispatched")

	for _, fn := range subs {
		fn(snapshot)
	}
}

// State returns the current snapshot. Slices inside the snapshot are shared
// with the store and must be treated as immutable.
func (s *Store) State() RootState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called after each dispatch. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Do runs an asynchronous task with this store's dispatch capability. It is
// the single entry point for both plain events (via Dispatch) and
// operations that emit them over time.
func (s *Store) Do(ctx context.Context, t Task) error {
	return t(ctx, s.Dispatch)
}
