// Package testutil holds fixtures shared by pricetrack tests.
package testutil

import (
	"sync"

	"github.com/five82/pricetrack/internal/state"
)

// StateBuilder provides a fluent helper for constructing states in tests.
// Example:
//
//	s := testutil.NewStateBuilder().LoggedIn(testutil.User("ada")).Products(p1, p2).Build()
//
// Chain only the parts you need; unset fields keep state.Initial defaults.
type StateBuilder struct {
	s state.State
}

// NewStateBuilder starts from state.Initial.
func NewStateBuilder() *StateBuilder { return &StateBuilder{s: state.Initial()} }

// LoggedIn sets the user and marks the session as logged in (chainable).
func (b *StateBuilder) LoggedIn(u state.User) *StateBuilder {
	b.s.UserInfo = u
	b.s.IsLoggedIn = true
	return b
}

// Pending sets the pending flag (chainable).
func (b *StateBuilder) Pending() *StateBuilder { b.s.IsPending = true; return b }

// Failed sets the error flag of a family (chainable).
func (b *StateBuilder) Failed(f state.Family) *StateBuilder { b.s.Errors[f] = true; return b }

// Products sets the product list (chainable).
func (b *StateBuilder) Products(ps ...state.Product) *StateBuilder {
	b.s.AllProducts = ps
	return b
}

// AddProductStatus sets the add-product status fields (chainable).
func (b *StateBuilder) AddProductStatus(success, failed bool, msg string) *StateBuilder {
	b.s.AddProductSuccess = success
	b.s.AddProductError = failed
	b.s.AddProductErrorMessage = msg
	return b
}

// Build returns a copy of the built state.
func (b *StateBuilder) Build() state.State { return b.s.Clone() }

// User returns a user record with the given name.
func User(name string) state.User {
	return state.User{"id": float64(1), "name": name, "email": name + "@example.com"}
}

// Product returns a product record as the server would return it.
func Product(id float64, name string) state.Product {
	return state.Product{"id": id, "name": name}
}

// ErrorResponse returns an error payload carrying msg.
func ErrorResponse(status int, msg string) *state.ErrorResponse {
	return &state.ErrorResponse{Status: status, Data: &state.ErrorData{Message: msg}}
}

// Recorder collects dispatched events and forwards them to an optional
// store. It implements the dispatcher's emitter interface.
type Recorder struct {
	mu     sync.Mutex
	Store  *state.Store
	events []state.Event
}

// Dispatch records ev and forwards it.
func (r *Recorder) Dispatch(ev state.Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	if r.Store != nil {
		return r.Store.Dispatch(ev)
	}
	return nil
}

// Events returns the recorded events in dispatch order.
func (r *Recorder) Events() []state.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]state.Event(nil), r.events...)
}

// Kinds returns the kinds of the recorded events in dispatch order.
func (r *Recorder) Kinds() []state.Kind {
	events := r.Events()
	kinds := make([]state.Kind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind()
	}
	return kinds
}
