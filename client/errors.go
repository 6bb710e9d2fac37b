package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the remote API reports no post for an id.
var ErrNotFound = errors.New("postadmin: post not found")

// APIError is a non-2xx response from the remote API. Message carries the
// server's error text when the body was a {"error": ...} envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("postadmin: api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("postadmin: api error %d", e.StatusCode)
}

// Is lets a 404 APIError match ErrNotFound through errors.Is.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
