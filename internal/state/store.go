package state

import (
	"errors"
	"sync"

	"github.com/five82/pricetrack/internal/logging"
)

// Store owns the state tree. Events are reduced one at a time in the order
// Dispatch is called, and subscribers see every resulting state in that
// order.
type Store struct {
	// dispatchMu serializes whole dispatches (reduce, effect, notify).
	dispatchMu sync.Mutex

	mu     sync.RWMutex
	state  State
	cache  Cache
	log    logging.Logger
	subs   map[int]func(State)
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for reduction and cache failures.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore builds a Store seeded from cache. A nil cache disables mirroring.
// Cache entries that cannot be decoded are logged and ignored.
func NewStore(cache Cache, opts ...Option) *Store {
	s := &Store{
		cache: cache,
		log:   logging.NoOp{},
		subs:  make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.OrNoOp(s.log)

	initial, err := seed(cache)
	if err != nil {
		s.log.Warn("ignoring unreadable cache entries", "error", err)
	}
	s.state = initial
	return s
}

// Dispatch reduces ev into the current state, applies its cache effect and
// notifies subscribers. Subscribers must not call Dispatch synchronously.
//
// The returned error reports a malformed event or a failed cache write; the
// state transition has been applied (or skipped, for invariant violations)
// either way.
func (s *Store) Dispatch(ev Event) error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	next, effect, reduceErr := Reduce(s.state, ev)
	s.state = next
	snap := next.Clone()
	subs := make([]func(State), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	// Cache I/O runs outside mu so Snapshot never waits on disk; dispatchMu
	// still orders effects with their reductions.
	effectErr := applyEffect(s.cache, effect, snap)

	if reduceErr != nil {
		s.log.Warn("reduction rejected event payload", "event", kindOf(ev), "error", reduceErr)
	}
	if effectErr != nil {
		s.log.Error("cache mirror out of date", "event", kindOf(ev), "error", effectErr)
	}
	s.log.Debug("reduced event", "event", kindOf(ev), "pending", snap.IsPending, "effect", effect.String())

	for _, fn := range subs {
		fn(snap.Clone())
	}
	return errors.Join(reduceErr, effectErr)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn to be called after every reduction. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func kindOf(ev Event) string {
	if ev == nil {
		return "<nil>"
	}
	return string(ev.Kind())
}
