package httpclient

import "fmt"

// StatusError is returned for a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}
