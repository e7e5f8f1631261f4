package adapters

import (
	"errors"
	"fmt"
	"time"
)

// Adapter failures carry a discriminated type so the orchestrator can tell
// "not here, try the next port" apart from "credentials broken, stop".
// Not-found is a normal outcome of a lookup, not an exceptional one, and
// adapters must return it as a *NotFoundError rather than panicking.

// NotFoundError means the container is absent at a specific port/terminal.
// It is expected and non-fatal; it drives multi-port fallback.
type NotFoundError struct {
	ContainerNumber string
	PortCode        string
	Terminal        string
}

func (e *NotFoundError) Error() string {
	if e.Terminal != "" {
		return fmt.Sprintf("container %s not found at %s (%s)", e.ContainerNumber, e.PortCode, e.Terminal)
	}
	return fmt.Sprintf("container %s not found at %s", e.ContainerNumber, e.PortCode)
}

// AuthenticationError means the adapter's credentials were rejected or have
// expired. The orchestrator surfaces it and never retries automatically.
type AuthenticationError struct {
	PortCode string
	Terminal string
	Reason   string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for %s/%s: %s", e.PortCode, e.Terminal, e.Reason)
}

// RateLimitError means the terminal asked us to back off. The orchestrator
// moves on to the next port instead of hammering the same one again.
type RateLimitError struct {
	PortCode   string
	Terminal   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by %s/%s, retry after %s", e.PortCode, e.Terminal, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited by %s/%s", e.PortCode, e.Terminal)
}

// AdapterError is the generic transport or parse failure. It wraps the
// underlying cause.
type AdapterError struct {
	PortCode string
	Terminal string
	Op       string
	Err      error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s failed for %s/%s: %v", e.Op, e.PortCode, e.Terminal, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a container-not-found outcome.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAuthentication reports whether err is a credentials failure.
func IsAuthentication(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsRateLimit reports whether err is a backoff request from the terminal.
func IsRateLimit(err error) bool {
	var re *RateLimitError
	return errors.As(err, &re)
}
