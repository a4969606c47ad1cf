package app

import (
	"context"
	"time"

	"github.com/five82/pricetrack/internal/state"
)

const defaultRefreshInterval = time.Minute

// snapshotter exposes the current state.
type snapshotter interface {
	Snapshot() state.State
}

// sessionActions is the part of the dispatcher the refresher drives.
type sessionActions interface {
	Me(ctx context.Context)
	FetchAllProducts(ctx context.Context)
}

// StartRefresher launches a background goroutine that first revalidates a
// cached session and then keeps the product list current. It returns
// immediately; the goroutine exits when ctx is cancelled.
func StartRefresher(ctx context.Context, store snapshotter, actions sessionActions, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	go func() {
		bootstrap(ctx, store, actions)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refresh(ctx, store, actions)
			}
		}
	}()
}

// bootstrap checks a session restored from the cache with the server and
// loads the products when it is still valid.
func bootstrap(ctx context.Context, store snapshotter, actions sessionActions) {
	if !store.Snapshot().IsLoggedIn {
		return
	}
	actions.Me(ctx)
	refresh(ctx, store, actions)
}

// refresh fetches products when signed in and no other operation is in
// flight, so a background refresh never overlaps a user action.
func refresh(ctx context.Context, store snapshotter, actions sessionActions) {
	if ctx.Err() != nil {
		return
	}
	snap := store.Snapshot()
	if !snap.IsLoggedIn || snap.IsPending {
		return
	}
	actions.FetchAllProducts(ctx)
}
