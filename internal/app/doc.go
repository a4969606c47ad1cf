// Package app provides the orchestration layer for the pricetrack client.
//
// # Overview
//
// This package wires together configuration, logging, the session cache,
// the HTTP transport, the state store, the action dispatcher and the UI. It
// is the composition root where all dependencies are initialized and
// connected.
//
// # Architecture
//
//  1. Load configuration from ~/.config/pricetrack/config.toml
//  2. Open the log file; the TUI owns the terminal so nothing logs to stderr
//  3. Open the session cache and seed a state.Store from it
//  4. Build the api.Client and the actions.Dispatcher on top of the store
//  5. Launch the background refresher
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read config
//	       ├─────> cache.Open()         Restore userInfo / isLoggedIn / cookies
//	       ├─────> state.NewStore()     Seeded state tree
//	       ├─────> actions.New()        Lifecycle events over api.Client
//	       ├─────> StartRefresher()     Session check + product refresh
//	       └─────> ui.Run()             Start TUI (blocks)
//
// # Refresher
//
// On start, a session restored from the cache is revalidated with Me using
// the session cookies the client restored from the same cache; a rejected
// session clears the cache, cookies included, through the store. While signed in the
// product list is re-fetched every refresh interval (default 60 seconds),
// skipping ticks while another operation is pending.
//
// # Error Handling
//
// Run returns errors for invalid configuration, an unusable log or cache
// path and an invalid API URL. Network failures never stop the client: they
// surface as error flags in the state tree and in the log.
package app
