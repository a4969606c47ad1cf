// Package state holds the pricetrack client state tree and the rules that
// move it forward.
//
// # Overview
//
// Every asynchronous operation the client performs (signing in, refreshing
// the session, signing out, adding a product, listing products) is mirrored
// into a single State value as a sequence of events. The package provides:
//
//   - State: the tree itself (session, pending flag, per-family errors,
//     product list, add-product status)
//   - Event: a closed set of transition requests, one struct per kind
//   - Reduce: the pure transition function
//   - Store: the owner of the current State, which applies events in order,
//     mirrors the session into a Cache and notifies subscribers
//
// # Reduction
//
// Reduce(s, ev) returns the next state, the cache Effect the transition
// requires and an error describing a defective event. It never modifies s.
//
//	next, effect, err := state.Reduce(current, state.AddProductSuccess{Product: p})
//	// next.AllProducts == [p, current.AllProducts...]
//	// effect == state.EffectNone
//
// Error events whose payload carries no message still produce the error
// state, with MalformedMessage substituted, and return an error wrapping
// ErrMalformedErrorPayload. ProfilePicUploadSuccess without a signed-in user
// leaves the state unchanged and returns ErrInvariantViolation.
//
// # Error Flags
//
// Errors are tracked per lifecycle family (auth, add-product,
// fetch-products). A family's success clears only that family's flag;
// IsErrors reports whether any flag is set.
//
// # Cache Mirror
//
// The Store writes userInfo (JSON) and isLoggedIn under CacheKeyUserInfo and
// CacheKeyIsLoggedIn after AuthSuccess, MeSuccess and
// ProfilePicUploadSuccess, and clears the cache after SignOutSuccess and
// MeError. NewStore seeds the initial state from the same keys. Cache and
// state writes are not transactional: a failed write is logged and reported
// as ErrCacheWrite while the in-memory state keeps the new value.
//
// # Concurrency Model
//
// Dispatch may be called from any goroutine. Whole dispatches are serialized,
// so reductions never interleave and subscribers observe states in dispatch
// order. Subscribers run on the dispatching goroutine and must not call
// Dispatch themselves; hand the state to another goroutine instead (the UI
// forwards it to the Bubble Tea program).
//
// Snapshot and subscriber states are deep copies, as in:
//
//	snap := store.Snapshot()
//	snap.AllProducts[0]["name"] = "x" // does not affect the store
package state
