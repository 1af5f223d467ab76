package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for link creation and resolution.

// ErrLinkNotFound is returned when a short code doesn't exist or has no usable targets
var ErrLinkNotFound = errors.New("link not found")

// ErrDuplicateCode is returned when the short code is already taken
var ErrDuplicateCode = errors.New("short code already exists")

// ErrEmptyTargetList is returned when a link is created without any destination
var ErrEmptyTargetList = errors.New("at least one target is required")

// ErrStoreUnavailable wraps any failure of the underlying database
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrInvalidURL is returned when a destination URL is blank
var ErrInvalidURL = errors.New("invalid destination URL")

// ErrInvalidShortCode is returned when a user-supplied short code can't be routed
var ErrInvalidShortCode = errors.New("invalid short code format")

// ErrCounterUpdateFailed describes a dropped visit counter increment.
// It is logged, never returned to a request.
type ErrCounterUpdateFailed struct {
	Kind   string
	ID     string
	Reason string
}

func (e ErrCounterUpdateFailed) Error() string {
	return fmt.Sprintf("failed to increment %s visits for %s: %s", e.Kind, e.ID, e.Reason)
}

// ErrURLCheckFailed is returned when a destination health check fails
type ErrURLCheckFailed struct {
	URL    string
	Reason string
}

func (e ErrURLCheckFailed) Error() string {
	return fmt.Sprintf("failed to check URL %s: %s", e.URL, e.Reason)
}

// ErrConfigLoad is returned when configuration loading fails
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}
