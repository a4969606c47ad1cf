package state

import (
	"fmt"
	"maps"
)

// Effect is the cache side effect a reduction asks the Store to perform.
type Effect int

const (
	EffectNone Effect = iota
	// EffectPersistSession writes userInfo and isLoggedIn to the cache.
	EffectPersistSession
	// EffectClearCache purges the cache mirror.
	EffectClearCache
)

func (e Effect) String() string {
	switch e {
	case EffectPersistSession:
		return "persist-session"
	case EffectClearCache:
		return "clear-cache"
	default:
		return "none"
	}
}

// MalformedMessage replaces the message of an error event whose payload
// carried none.
const MalformedMessage = "unexpected error"

// Reduce computes the state that follows ev. It never modifies s. The
// returned Effect names the cache work the transition requires.
//
// A non-nil error reports a defect in the event rather than a failed
// reduction: for malformed error payloads the returned state is still the
// error state (with MalformedMessage), for invariant violations and unknown
// events the returned state equals s.
func Reduce(s State, ev Event) (State, Effect, error) {
	next := s.Clone()

	switch e := ev.(type) {
	case AuthStart, MeStart:
		next.IsPending = true

	case SignOutStart:
		next.Errors[FamilyAuth] = false
		next.IsPending = true

	case AuthSuccess:
		next.IsPending = false
		next.UserInfo = e.User.clone()
		next.IsLoggedIn = true
		return next, EffectPersistSession, nil

	case AuthError:
		next.Errors[FamilyAuth] = true
		next.IsPending = false
		msg, err := errorMessage(e, e.Response)
		next.ErrorMessage[AuthFormsKey] = msg
		return next, EffectNone, err

	case MeSuccess:
		next.IsPending = false
		next.IsLoggedIn = true
		next.Errors[FamilyAuth] = false
		next.UserInfo = e.User.clone()
		return next, EffectPersistSession, nil

	case MeError:
		next.UserInfo = nil
		next.IsLoggedIn = false
		next.IsPending = false
		return next, EffectClearCache, nil

	case SignOutSuccess:
		next.Errors[FamilyAuth] = false
		next.IsPending = false
		next.UserInfo = nil
		next.IsLoggedIn = false
		return next, EffectClearCache, nil

	case SignOutError:
		next.Errors[FamilyAuth] = true
		next.IsPending = false

	case AddProductStart:
		next.IsPending = true
		clearAddProductStatus(&next)

	case AddProductSuccess:
		next.Errors[FamilyAddProduct] = false
		next.IsPending = false
		products := make([]Product, 0, len(next.AllProducts)+1)
		products = append(products, maps.Clone(e.Product))
		next.AllProducts = append(products, next.AllProducts...)
		next.AddProductSuccess = true

	case AddProductError:
		next.Errors[FamilyAddProduct] = true
		next.IsPending = false
		next.AddProductError = true
		msg, err := errorMessage(e, e.Response)
		next.AddProductErrorMessage = msg
		return next, EffectNone, err

	case FetchAllProductsStart:
		next.IsPending = true

	case FetchAllProductsSuccess:
		next.Errors[FamilyFetchProducts] = false
		next.IsPending = false
		next.AllProducts = cloneProducts(e.Products)

	case FetchAllProductsError:
		next.Errors[FamilyFetchProducts] = true
		next.IsPending = false

	case ProfilePicUploadSuccess:
		if next.UserInfo == nil {
			return s, EffectNone, fmt.Errorf("%w: %s with no signed-in user", ErrInvariantViolation, e.Kind())
		}
		next.Errors[FamilyAuth] = false
		next.UserInfo[profilePicField] = e.URL
		return next, EffectPersistSession, nil

	case RemoveAddProductStatus:
		clearAddProductStatus(&next)

	default:
		return s, EffectNone, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}

	return next, EffectNone, nil
}

func clearAddProductStatus(s *State) {
	s.AddProductSuccess = false
	s.AddProductError = false
	s.AddProductErrorMessage = ""
}

func errorMessage(ev Event, resp *ErrorResponse) (string, error) {
	if resp == nil {
		return MalformedMessage, fmt.Errorf("%w: %s has no response", ErrMalformedErrorPayload, ev.Kind())
	}
	if resp.Data == nil {
		return MalformedMessage, fmt.Errorf("%w: %s response (status %d) has no message", ErrMalformedErrorPayload, ev.Kind(), resp.Status)
	}
	return resp.Data.Message, nil
}
