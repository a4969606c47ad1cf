// Package logtail reads the end of the pricetrack log file for the activity
// view.
//
// # Reading
//
// Read returns the last maxLines of a file in one sequential pass using a
// ring buffer of maxLines entries, so memory is O(maxLines) regardless of
// file size. A missing file yields no lines and no error.
//
//	lines, err := logtail.Read(cfg.LogPath, 200)
//
// # Parsing
//
// The client logs through slog's text handler. ParseRecord splits such a
// line into time, level, message and the remaining key/value attributes,
// unquoting quoted values:
//
//	time=2026-10-19T10:00:00.000Z level=WARN msg="request failed" path=/api/user/me error="execute request: ..."
//
// Lines in any other format are returned with only Raw and Msg set, so a
// foreign line never hides the rest of the log.
package logtail
