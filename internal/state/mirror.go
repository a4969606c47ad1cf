package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Cache is the persistent key-value store the Store mirrors the session into.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Clear() error
}

// Cache keys owned by the Store.
const (
	CacheKeyUserInfo   = "userInfo"
	CacheKeyIsLoggedIn = "isLoggedIn"
)

// seed builds the initial state from whatever the cache holds. Unreadable
// entries fall back to the signed-out defaults and are reported as errors.
// IsLoggedIn is only restored together with a decodable userInfo.
func seed(c Cache) (State, error) {
	s := Initial()
	if c == nil {
		return s, nil
	}

	var errs []error
	if raw, ok := c.Get(CacheKeyUserInfo); ok && raw != "" && raw != "null" {
		var user User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			errs = append(errs, fmt.Errorf("decode cached %s: %w", CacheKeyUserInfo, err))
		} else {
			s.UserInfo = user
		}
	}
	if raw, ok := c.Get(CacheKeyIsLoggedIn); ok {
		loggedIn, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("decode cached %s: %w", CacheKeyIsLoggedIn, err))
		}
		s.IsLoggedIn = loggedIn
	}
	// A session flag without a readable user is not a session.
	if s.IsLoggedIn && s.UserInfo == nil {
		errs = append(errs, fmt.Errorf("cached %s is true without %s", CacheKeyIsLoggedIn, CacheKeyUserInfo))
		s.IsLoggedIn = false
	}
	if len(errs) > 0 {
		return s, fmt.Errorf("seed from cache: %w", errors.Join(errs...))
	}
	return s, nil
}

func persistSession(c Cache, s State) error {
	data, err := json.Marshal(s.UserInfo)
	if err != nil {
		return fmt.Errorf("encode %s: %w", CacheKeyUserInfo, err)
	}
	if err := c.Set(CacheKeyUserInfo, string(data)); err != nil {
		return fmt.Errorf("set %s: %w", CacheKeyUserInfo, err)
	}
	if err := c.Set(CacheKeyIsLoggedIn, strconv.FormatBool(s.IsLoggedIn)); err != nil {
		return fmt.Errorf("set %s: %w", CacheKeyIsLoggedIn, err)
	}
	return nil
}

func applyEffect(c Cache, effect Effect, s State) error {
	if c == nil {
		return nil
	}
	var err error
	switch effect {
	case EffectPersistSession:
		err = persistSession(c, s)
	case EffectClearCache:
		err = c.Clear()
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCacheWrite, effect, err)
	}
	return nil
}
