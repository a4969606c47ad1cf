package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/five82/pricetrack/internal/actions"
	"github.com/five82/pricetrack/internal/api"
	"github.com/five82/pricetrack/internal/cache"
	"github.com/five82/pricetrack/internal/state"
)

// sessionServer is a cookie-session price tracker: sign-in issues sid, the
// user and product endpoints reject requests without a live sid.
type sessionServer struct {
	mu       sync.Mutex
	sessions map[string]bool
}

func newSessionServer(t *testing.T) (*sessionServer, *httptest.Server) {
	t.Helper()
	s := &sessionServer{sessions: make(map[string]bool)}
	server := httptest.NewServer(s)
	t.Cleanup(server.Close)
	return s, server
}

func (s *sessionServer) expireAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]bool)
}

func (s *sessionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case actions.PathSignIn:
		s.mu.Lock()
		s.sessions["sid-1"] = true
		s.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "sid-1", Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]any{"id": "u1", "name": "ada"})
		return
	case actions.PathSignOut:
		if c, err := r.Cookie("sid"); err == nil {
			s.mu.Lock()
			delete(s.sessions, c.Value)
			s.mu.Unlock()
		}
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}

	c, err := r.Cookie("sid")
	s.mu.Lock()
	live := err == nil && s.sessions[c.Value]
	s.mu.Unlock()
	if !live {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "not signed in"})
		return
	}
	switch r.URL.Path {
	case actions.PathMe:
		writeJSON(w, http.StatusOK, map[string]any{"id": "u1", "name": "ada"})
	case actions.PathAllProducts:
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "p1", "name": "kettle"}})
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type process struct {
	cache      *cache.File
	store      *state.Store
	dispatcher *actions.Dispatcher
}

// startProcess wires a client the way Run does, sharing nothing with earlier
// processes but the cache file.
func startProcess(t *testing.T, baseURL, cachePath string) process {
	t.Helper()
	c, err := cache.Open(cachePath)
	if err != nil {
		t.Fatalf("cache.Open returned error: %v", err)
	}
	client, err := api.NewClient(baseURL, api.WithCookieStore(c))
	if err != nil {
		t.Fatalf("api.NewClient returned error: %v", err)
	}
	store := state.NewStore(c)
	return process{cache: c, store: store, dispatcher: actions.New(client, store, nil)}
}

func signIn(t *testing.T, p process) {
	t.Helper()
	p.dispatcher.SignIn(context.Background(), actions.Credentials{Email: "ada@example.com", Password: "pw"})
	if !p.store.Snapshot().IsLoggedIn {
		t.Fatalf("sign in did not log in")
	}
}

func TestSession_SurvivesRestart(t *testing.T) {
	_, server := newSessionServer(t)
	path := filepath.Join(t.TempDir(), "cache.toml")

	signIn(t, startProcess(t, server.URL, path))

	second := startProcess(t, server.URL, path)
	if !second.store.Snapshot().IsLoggedIn {
		t.Fatalf("restarted store not seeded as logged in")
	}
	bootstrap(context.Background(), second.store, second.dispatcher)

	got := second.store.Snapshot()
	if !got.IsLoggedIn {
		t.Fatalf("session lost after restart: %+v", got)
	}
	if got.HasErrors(state.FamilyFetchProducts) || len(got.AllProducts) != 1 {
		t.Fatalf("products = %v (fetch error %v), want one product", got.AllProducts, got.HasErrors(state.FamilyFetchProducts))
	}
	if v, _ := second.cache.Get(state.CacheKeyIsLoggedIn); v != "true" {
		t.Fatalf("cached isLoggedIn = %q, want true", v)
	}
}

func TestSession_SignOutDoesNotSurviveRestart(t *testing.T) {
	_, server := newSessionServer(t)
	path := filepath.Join(t.TempDir(), "cache.toml")

	first := startProcess(t, server.URL, path)
	signIn(t, first)
	first.dispatcher.SignOut(context.Background())
	if first.store.Snapshot().IsLoggedIn {
		t.Fatalf("still logged in after sign out")
	}

	second := startProcess(t, server.URL, path)
	if second.store.Snapshot().IsLoggedIn {
		t.Fatalf("restarted store logged in after sign out")
	}
	if _, ok := second.cache.Get(api.CookieCacheKey); ok {
		t.Fatalf("session cookies still cached after sign out")
	}
}

func TestSession_ExpiredOnServerClearsCookies(t *testing.T) {
	srv, server := newSessionServer(t)
	path := filepath.Join(t.TempDir(), "cache.toml")

	signIn(t, startProcess(t, server.URL, path))
	srv.expireAll()

	second := startProcess(t, server.URL, path)
	bootstrap(context.Background(), second.store, second.dispatcher)

	if got := second.store.Snapshot(); got.IsLoggedIn || got.UserInfo != nil {
		t.Fatalf("expired session still logged in: %+v", got)
	}
	for _, key := range []string{state.CacheKeyIsLoggedIn, state.CacheKeyUserInfo, api.CookieCacheKey} {
		if _, ok := second.cache.Get(key); ok {
			t.Fatalf("cache still holds %s after rejected session", key)
		}
	}
}
