package backend

import "fmt"

// Error is returned when a live call cannot produce a JSON body: the request
// failed in transit or the service answered with something that is not JSON.
type Error struct {
	Path       string
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
