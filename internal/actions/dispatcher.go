// Package actions runs the client's asynchronous operations and reports
// their lifecycle to the state store as start, success and error events.
package actions

import (
	"context"
	"errors"
	"net/http"

	"github.com/five82/pricetrack/internal/api"
	"github.com/five82/pricetrack/internal/logging"
	"github.com/five82/pricetrack/internal/state"
)

// Server endpoints.
const (
	PathSignIn      = "/api/user/signin"
	PathSignUp      = "/api/user/signup"
	PathMe          = "/api/user/me"
	PathSignOut     = "/api/user/signout"
	PathProfilePic  = "/api/user/profile-pic"
	PathAddProduct  = "/api/product/add-product"
	PathAllProducts = "/api/product/all-products"
)

// Emitter receives lifecycle events. *state.Store implements it.
type Emitter interface {
	Dispatch(ev state.Event) error
}

var _ Emitter = (*state.Store)(nil)

// Credentials are posted to sign in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is posted to create an account.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewProduct is posted to start tracking a product page.
type NewProduct struct {
	Link        string  `json:"product_link"`
	TargetPrice float64 `json:"target_price,omitempty"`
}

// Dispatcher sequences each operation as start event, transport call and
// exactly one terminal event. It does not prevent overlapping calls of the
// same family; callers avoid issuing one while the previous is pending.
type Dispatcher struct {
	transport api.Transport
	store     Emitter
	log       logging.Logger
}

// New builds a Dispatcher. A nil logger discards output.
func New(transport api.Transport, store Emitter, log logging.Logger) *Dispatcher {
	return &Dispatcher{transport: transport, store: store, log: logging.OrNoOp(log)}
}

// SignIn authenticates with the server.
func (d *Dispatcher) SignIn(ctx context.Context, creds Credentials) {
	d.authenticate(ctx, PathSignIn, creds)
}

// SignUp registers a new account and signs it in.
func (d *Dispatcher) SignUp(ctx context.Context, reg Registration) {
	d.authenticate(ctx, PathSignUp, reg)
}

func (d *Dispatcher) authenticate(ctx context.Context, path string, body any) {
	d.emit(state.AuthStart{})
	var user state.User
	if err := d.transport.Call(ctx, http.MethodPost, path, body, &user); err != nil {
		d.logFailure(path, err)
		d.emit(state.AuthError{Response: errorResponse(err)})
		return
	}
	d.emit(state.AuthSuccess{User: user})
}

// Me revalidates the current session and refreshes the user record. Any
// failure is treated as an invalid session.
func (d *Dispatcher) Me(ctx context.Context) {
	d.emit(state.MeStart{})
	var user state.User
	if err := d.transport.Call(ctx, http.MethodGet, PathMe, nil, &user); err != nil {
		d.logFailure(PathMe, err)
		d.emit(state.MeError{Response: errorResponse(err)})
		return
	}
	d.emit(state.MeSuccess{User: user})
}

// SignOut ends the session on the server.
func (d *Dispatcher) SignOut(ctx context.Context) {
	d.emit(state.SignOutStart{})
	if err := d.transport.Call(ctx, http.MethodPost, PathSignOut, nil, nil); err != nil {
		d.logFailure(PathSignOut, err)
		d.emit(state.SignOutError{Response: errorResponse(err)})
		return
	}
	d.emit(state.SignOutSuccess{})
}

// AddProduct starts tracking a product. onDone, when non-nil, runs after a
// successful add.
func (d *Dispatcher) AddProduct(ctx context.Context, p NewProduct, onDone func()) {
	d.emit(state.AddProductStart{})
	var product state.Product
	if err := d.transport.Call(ctx, http.MethodPost, PathAddProduct, p, &product); err != nil {
		d.logFailure(PathAddProduct, err)
		d.emit(state.AddProductError{Response: errorResponse(err)})
		return
	}
	d.emit(state.AddProductSuccess{Product: product})
	if onDone != nil {
		onDone()
	}
}

// FetchAllProducts replaces the product list with the server's.
func (d *Dispatcher) FetchAllProducts(ctx context.Context) {
	d.emit(state.FetchAllProductsStart{})
	var products []state.Product
	if err := d.transport.Call(ctx, http.MethodGet, PathAllProducts, nil, &products); err != nil {
		d.logFailure(PathAllProducts, err)
		d.emit(state.FetchAllProductsError{Response: errorResponse(err)})
		return
	}
	d.emit(state.FetchAllProductsSuccess{Products: products})
}

// UpdateProfilePic sets the user's profile picture URL. There is no pending
// or error state for this operation: a failure is only logged.
func (d *Dispatcher) UpdateProfilePic(ctx context.Context, url string) {
	var resp struct {
		ProfilePic string `json:"profile_pic"`
	}
	body := map[string]string{"profile_pic": url}
	if err := d.transport.Call(ctx, http.MethodPost, PathProfilePic, body, &resp); err != nil {
		d.logFailure(PathProfilePic, err)
		return
	}
	if resp.ProfilePic == "" {
		resp.ProfilePic = url
	}
	d.emit(state.ProfilePicUploadSuccess{URL: resp.ProfilePic})
}

// ClearAddProductStatus resets the add-product success and error flags.
func (d *Dispatcher) ClearAddProductStatus() {
	d.emit(state.RemoveAddProductStatus{})
}

func (d *Dispatcher) emit(ev state.Event) {
	if err := d.store.Dispatch(ev); err != nil {
		d.log.Warn("event applied with errors", "event", string(ev.Kind()), "error", err)
	}
}

func (d *Dispatcher) logFailure(path string, err error) {
	if errors.Is(err, context.Canceled) {
		d.log.Debug("request cancelled", "path", path)
		return
	}
	d.log.Warn("request failed", "path", path, "error", err)
}

// errorResponse converts a transport failure into the payload carried by
// error events. Failures without a server response yield nil; responses
// without a message yield a response with nil Data.
func errorResponse(err error) *state.ErrorResponse {
	re, ok := api.AsResponseError(err)
	if !ok {
		return nil
	}
	resp := &state.ErrorResponse{Status: re.StatusCode}
	if re.HasMessage {
		resp.Data = &state.ErrorData{Message: re.Message}
	}
	return resp
}
