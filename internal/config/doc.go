// Package config loads the pricetrack client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pricetrack/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - API URL: http://127.0.0.1:5000
//   - Cache file: ~/.local/state/pricetrack/cache.toml
//   - Log file: ~/.local/state/pricetrack/pricetrack.log
//   - Log level: info
//   - Request timeout: 10s
//   - Product refresh interval: 60s
//   - Theme: Nightfox
//
// # TOML Format
//
//	api_url = "https://tracker.example.com"
//	cache_path = "~/.local/state/pricetrack/cache.toml"
//	log_path = "~/.local/state/pricetrack/pricetrack.log"
//	log_level = "debug"
//	request_timeout = "5s"
//	refresh_interval = "2m"
//	theme = "Nord"
//
// All fields are optional. Paths get tilde expansion; durations use Go
// duration syntax and must be positive.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML syntax errors, and invalid log levels or durations.
// A missing file is not an error.
package config
