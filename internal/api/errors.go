package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ResponseError is returned by Call when the server answered with an error
// status. Message is set only when the body was a JSON object with a string
// "message" field.
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Message    string
	HasMessage bool
}

func (e *ResponseError) Error() string {
	if e.HasMessage {
		return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

func newResponseError(method, path string, status int, body []byte) *ResponseError {
	e := &ResponseError{Method: method, Path: path, StatusCode: status, Body: body}
	var payload struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != nil {
		e.Message = *payload.Message
		e.HasMessage = true
	}
	return e
}

// AsResponseError reports whether err carries a server response.
func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
