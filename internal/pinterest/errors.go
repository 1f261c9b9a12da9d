package pinterest

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned by NewClient when no credential is available.
// There is no anonymous mode; this is a construction-time failure, never a
// per-call condition.
var ErrMissingAPIKey = errors.New("pinterest: missing API key")

// ErrUpstreamUnsuccessful indicates a payload that parsed cleanly but carried
// a false success indicator.
var ErrUpstreamUnsuccessful = errors.New("pinterest: upstream reported unsuccessful response")

// FetchError wraps any upstream fault: network error, timeout, non-2xx
// status, undecodable body, or an unsuccessful payload. The pipeline recovers
// from it by substituting fallback data; it is never surfaced to API callers.
type FetchError struct {
	Keyword    string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("pinterest: fetch %q failed with status %d: %v", e.Keyword, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("pinterest: fetch %q failed: %v", e.Keyword, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
