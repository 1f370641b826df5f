package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// ConfigError indicates a request or client that is malformed before any
// network call: missing API key, bad tool-choice combination, empty schema.
// It is never retried.
type ConfigError struct {
	Setting string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Setting, e.Message)
}

// TimeoutError indicates a single attempt exceeded the wall-clock budget.
type TimeoutError struct {
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("model request timed out: %v", e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// UpstreamError wraps a provider-side failure with its HTTP status and
// whether the status class is worth retrying.
type UpstreamError struct {
	StatusCode int
	Retryable  bool
	Cause      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (status %d, retryable=%t): %v", e.StatusCode, e.Retryable, e.Cause)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// EmptyResponseError indicates the provider returned no usable content.
type EmptyResponseError struct {
	Model string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("model %s returned an empty response", e.Model)
}

// retryableStatuses is the allow-list of transient HTTP statuses:
// rate limiting plus the three standard "upstream unavailable" codes.
var retryableStatuses = map[int]bool{
	429: true,
	502: true,
	503: true,
	504: true,
}

// RetryableStatus reports whether an HTTP status is on the retry allow-list.
func RetryableStatus(status int) bool {
	return retryableStatuses[status]
}

// IsRetryable classifies an error for the retry policy: timeouts,
// allow-listed upstream statuses, and connection-level transport failures
// retry; everything else fails immediately.
func IsRetryable(err error) bool {
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Retryable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var oe *net.OpError
	return errors.As(err, &oe)
}

// enrichTransportError annotates a generic transport failure with the
// underlying network error so "fetch failed" does not hide a DNS failure,
// a refused connection, or a TLS problem.
func enrichTransportError(err error) error {
	if err == nil {
		return nil
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w (dns: %s)", err, dnsErr.Err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("%w (connection refused)", err)
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return fmt.Errorf("%w (connection reset)", err)
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return fmt.Errorf("%w (i/o deadline)", err)
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return fmt.Errorf("%w (net %s)", err, oe.Op)
	}
	return err
}
