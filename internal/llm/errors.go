package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrRetriesExhausted is returned when every attempt failed
var ErrRetriesExhausted = errors.New("generation retries exhausted")

// NetworkError is a transport failure: the request never produced a status code
type NetworkError struct {
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("generation request timed out: %v", e.Err)
	}
	return fmt.Sprintf("generation request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError is a non-success answer from the generation service
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("generation service returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("generation service returned %d: %s", e.StatusCode, e.Message)
}

// IsTimeout reports whether err is a timed-out attempt
func IsTimeout(err error) bool {
	var nerr *NetworkError
	if errors.As(err, &nerr) {
		return nerr.Timeout
	}
	return false
}

// transportError wraps a raw client error as a NetworkError, detecting timeouts
func transportError(err error) error {
	var nerr *NetworkError
	if errors.As(err, &nerr) {
		return err
	}
	var netErr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
	return &NetworkError{Timeout: timeout, Err: err}
}
