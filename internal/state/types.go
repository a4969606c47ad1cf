package state

import (
	"fmt"
	"maps"
	"math"
	"strconv"
)

// User is the signed-in user's record as returned by the server. Its shape is
// owned by the server; the store only reads and writes profile_pic.
type User map[string]any

// ProfilePic returns the user's profile picture URL, if any.
func (u User) ProfilePic() string {
	pic, _ := u[profilePicField].(string)
	return pic
}

func (u User) clone() User {
	if u == nil {
		return nil
	}
	return maps.Clone(u)
}

const profilePicField = "profile_pic"

// Product is a tracked product record as returned by the server.
type Product map[string]any

// ID returns the product's id rendered as text, or "" when absent.
func (p Product) ID() string {
	return stringField(p, "id")
}

// Name returns the product name, or "" when absent.
func (p Product) Name() string {
	return stringField(p, "name")
}

// Link returns the product page URL, or "" when absent.
func (p Product) Link() string {
	return stringField(p, "product_link")
}

// CurrentPrice returns the last scraped price rendered as text.
func (p Product) CurrentPrice() string {
	return stringField(p, "current_price")
}

// Family names a lifecycle family: a group of events sharing an error flag.
type Family string

const (
	FamilyAuth          Family = "auth"
	FamilyAddProduct    Family = "add-product"
	FamilyFetchProducts Family = "fetch-products"
)

// AuthFormsKey is the ErrorMessage key written by auth failures.
const AuthFormsKey = "authForms"

// ErrorResponse is the failure payload attached to error events. Data is nil
// when the server response carried no message.
type ErrorResponse struct {
	Status int
	Data   *ErrorData
}

// ErrorData holds the human-readable message of a failed request.
type ErrorData struct {
	Message string
}

// State is the observable state tree. Values handed out by the Store are
// deep copies and may be modified freely by the receiver.
type State struct {
	UserInfo     User
	IsLoggedIn   bool
	IsPending    bool
	Errors       map[Family]bool
	ErrorMessage map[string]string
	AllProducts  []Product

	AddProductSuccess      bool
	AddProductError        bool
	AddProductErrorMessage string
}

// Initial returns the default state for a signed-out client.
func Initial() State {
	return State{
		Errors:       map[Family]bool{},
		ErrorMessage: map[string]string{AuthFormsKey: ""},
	}
}

// IsErrors reports whether any lifecycle family is in an error state.
func (s State) IsErrors() bool {
	for _, failed := range s.Errors {
		if failed {
			return true
		}
	}
	return false
}

// HasErrors reports whether the given family is in an error state.
func (s State) HasErrors(f Family) bool {
	return s.Errors[f]
}

// Clone returns a deep copy of s. Records inside AllProducts are copied too.
func (s State) Clone() State {
	dup := s
	dup.UserInfo = s.UserInfo.clone()
	dup.Errors = maps.Clone(s.Errors)
	if dup.Errors == nil {
		dup.Errors = map[Family]bool{}
	}
	dup.ErrorMessage = maps.Clone(s.ErrorMessage)
	if dup.ErrorMessage == nil {
		dup.ErrorMessage = map[string]string{}
	}
	dup.AllProducts = cloneProducts(s.AllProducts)
	return dup
}

func cloneProducts(items []Product) []Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Product, len(items))
	for i, item := range items {
		dup[i] = maps.Clone(item)
	}
	return dup
}

func stringField(rec map[string]any, key string) string {
	switch v := rec[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
