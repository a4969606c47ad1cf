package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	wantCache, err := expandPath(defaultCachePath)
	if err != nil {
		t.Fatalf("expandPath(defaultCachePath) returned error: %v", err)
	}
	if cfg.CachePath != wantCache {
		t.Fatalf("CachePath = %q, want %q", cfg.CachePath, wantCache)
	}
	if !strings.HasPrefix(cfg.LogPath, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", cfg.LogPath, home)
	}
	if cfg.RequestTimeout != defaultRequestTimeout || cfg.RefreshInterval != defaultRefreshInterval {
		t.Fatalf("durations = %v/%v, want defaults", cfg.RequestTimeout, cfg.RefreshInterval)
	}
	if cfg.LogLevel != "info" || cfg.Theme != defaultTheme {
		t.Fatalf("LogLevel/Theme = %q/%q, want info/%s", cfg.LogLevel, cfg.Theme, defaultTheme)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  https://tracker.example.com  "
cache_path = "  ~/.cache/pt.toml  "
log_level = " DEBUG "
request_timeout = "3s"
refresh_interval = "5m"
theme = "Slate"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://tracker.example.com" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "https://tracker.example.com")
	}
	if cfg.CachePath != filepath.Join(home, ".cache/pt.toml") {
		t.Fatalf("CachePath = %q, want it expanded under HOME", cfg.CachePath)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.RequestTimeout != 3*time.Second || cfg.RefreshInterval != 5*time.Minute {
		t.Fatalf("durations = %v/%v, want 3s/5m", cfg.RequestTimeout, cfg.RefreshInterval)
	}
	if cfg.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate", cfg.Theme)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "   "
request_timeout = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"toml", `api_url = [`, "parse config"},
		{"duration", `request_timeout = "soon"`, "request_timeout"},
		{"negative", `refresh_interval = "-1s"`, "must be positive"},
		{"level", `log_level = "loud"`, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load returned nil error, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
