package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/five82/pricetrack/internal/logging"
)

// CookieCacheKey is the cache entry holding the server's session cookies.
const CookieCacheKey = "sessionCookies"

// CookieStore keeps the session cookies between runs. *cache.File
// implements it; clearing the cache drops the cookies with the session.
type CookieStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// persistentJar writes the cookies held for the API host to a CookieStore
// every time the server sets any.
type persistentJar struct {
	http.CookieJar
	base  *url.URL
	store CookieStore
	log   logging.Logger
}

func (j *persistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.CookieJar.SetCookies(u, cookies)
	if err := j.save(); err != nil {
		j.log.Warn("session cookies not persisted", "error", err)
	}
}

func (j *persistentJar) save() error {
	current := j.CookieJar.Cookies(j.base)
	saved := make([]savedCookie, 0, len(current))
	for _, c := range current {
		saved = append(saved, savedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("encode %s: %w", CookieCacheKey, err)
	}
	if err := j.store.Set(CookieCacheKey, string(data)); err != nil {
		return fmt.Errorf("set %s: %w", CookieCacheKey, err)
	}
	return nil
}

// restore loads saved cookies into the jar as session cookies for the API
// host.
func (j *persistentJar) restore() error {
	raw, ok := j.store.Get(CookieCacheKey)
	if !ok || raw == "" {
		return nil
	}
	var saved []savedCookie
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return fmt.Errorf("decode %s: %w", CookieCacheKey, err)
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		if c.Name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	if len(cookies) > 0 {
		j.CookieJar.SetCookies(j.base, cookies)
	}
	return nil
}
