package mailchimp

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any error for a resource the API reports as missing.
var ErrNotFound = errors.New("mailchimp: not found")

// APIError is a structured problem document returned by the API.
type APIError struct {
	Status   int    `json:"status"`
	Title    string `json:"title"`
	Detail   string `json:"detail,omitempty"`
	Type     string `json:"type,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Raw is the undecoded response body.
	Raw []byte `json:"-"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error (status %d): %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Title)
}

// Is reports a 404 as ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// RawError is a failure with no structured body: a transport error, or a
// non-2xx response that did not decode as a problem document.
type RawError struct {
	// Status is the HTTP status, or zero when no response arrived.
	Status  int
	Message string
}

func (e *RawError) Error() string {
	return e.Message
}

// Is reports a 404 as ErrNotFound.
func (e *RawError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}
