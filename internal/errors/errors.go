package errors

import (
	"errors"
	"fmt"
)

// Common error types for the club sync invocations
var (
	// Token errors
	ErrAuthRefresh         = errors.New("oauth token refresh failed")
	ErrCredentialsNotFound = errors.New("oauth credentials not found")

	// Upstream feed errors
	ErrUpstream       = errors.New("upstream api error")
	ErrRetryExhausted = errors.New("upstream auth retries exhausted")

	// Durable store errors, never surfaced past blobstore.Store
	ErrStoreRead  = errors.New("store read failed")
	ErrStoreWrite = errors.New("store write failed")

	// Secret errors
	ErrSecretNotFound = errors.New("secret not found")

	// Sink errors
	ErrSinkSubmit = errors.New("sink submit failed")

	// Configuration errors
	ErrMissingClubID = errors.New("club id is required")
)

// UpstreamError records the status code of a failed feed request.
// It matches ErrUpstream with errors.Is.
type UpstreamError struct {
	StatusCode int
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: status %d from %s", ErrUpstream, e.StatusCode, e.URL)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
