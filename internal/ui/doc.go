// Package ui provides the terminal user interface for pricetrack.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program that subscribes to the state store and
// renders whatever snapshot it last received. It never mutates state
// itself: every user action goes through the action dispatcher, which
// emits lifecycle events to the store, which notifies the UI again.
//
// # Package Structure
//
//   - app.go: Model, Options, Run and the commands that call the dispatcher
//   - input_handlers.go: key routing for the product list and the forms
//   - view.go: header, product table, forms, activity log and help rendering
//   - keys.go: key bindings (bubbles/key) shared by the footer and help
//   - theme.go: color palettes and Lipgloss styles
//
// # Views
//
//   - Sign in / sign up: shown whenever the session is signed out
//   - Products: tracked products, newest first, with add-product status
//   - Add product: product link and optional target price
//   - Profile picture: sets the picture URL on the user record
//   - Activity: the tail of the client's own log file
//
// # Dispatch Rule
//
// The store notifies subscribers synchronously and the subscription forwards
// snapshots with Program.Send. Dispatcher calls therefore always run inside
// tea.Cmd goroutines and never directly from Update.
//
// # Keyboard
//
//	r      refresh products (or the activity log)
//	a      add product
//	p      profile picture
//	o      sign out
//	l      activity log
//	1      products
//	T      cycle theme
//	?      toggle help
//	esc    close form, clear add-product status
//	ctrl+c quit
package ui
