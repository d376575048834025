package googlebooks

import (
	"errors"
	"fmt"
	"net/http"
)

// SearchFailedMessage is what users see when a search cannot be served.
const SearchFailedMessage = "Failed to fetch books. Please try again later."

// RemoteError is a failed catalog call: either a non-2xx status or a
// transport/decoding failure wrapped in Err. StatusCode is 0 when the
// request never got a response.
type RemoteError struct {
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		if e.StatusCode != 0 {
			return fmt.Sprintf("catalog: status %d: %v", e.StatusCode, e.Err)
		}
		return fmt.Sprintf("catalog: request failed: %v", e.Err)
	}
	return fmt.Sprintf("catalog: unexpected status code: %d", e.StatusCode)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// UserMessage hides transport details behind a generic message.
func (e *RemoteError) UserMessage() string { return SearchFailedMessage }

// NotFound reports whether the catalog answered 404.
func (e *RemoteError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// IsNotFound reports whether err is a catalog 404.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.NotFound()
}
