package archive

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// statusError carries a non-2xx upstream status, plus any Retry-After the
// server sent, through the retry decision.
type statusError struct {
	code       int
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream %d", e.code)
}

// parseRetryAfter reads a Retry-After header as either delta-seconds or an
// HTTP date. Returns 0 when absent or unparseable.
func parseRetryAfter(h http.Header) time.Duration {
	raw := h.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

// retryableFetchError reports whether a metadata fetch failure is worth the
// single longer-timeout retry. Timeouts and transient network errors
// qualify; client errors such as 404 do not.
func retryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	// The short first attempt hitting its deadline is the expected retry
	// trigger. A cancelled parent context is checked by the caller.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var status *statusError
	if errors.As(err, &status) {
		return shouldRetryStatus(status.code)
	}

	return isTransientNetError(err)
}

// isTransientNetError determines whether a network error is worth retrying.
func isTransientNetError(err error) bool {
	if err == nil {
		return false
	}

	// Timeout errors are always retryable
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// DNS errors with timeout/temporary flag
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTimeout || dnsErr.IsTemporary
	}

	// Connection errors (service might be restarting)
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" {
			return true
		}
		if opErr.Op == "read" || opErr.Op == "write" {
			return true
		}
	}

	// Check error string for common transient patterns; not ideal but
	// sometimes necessary for wrapped errors.
	errStr := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"temporary failure",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// shouldRetryStatus returns true if the HTTP status code indicates the
// request could succeed on a second attempt.
func shouldRetryStatus(status int) bool {
	switch {
	case status == 0:
		return true
	case status == http.StatusTooManyRequests:
		return true
	case status == http.StatusRequestTimeout:
		return true
	case status >= 500 && status <= 599:
		return true
	default:
		return false
	}
}

// retryPause picks the wait before a retry attempt: the server's
// Retry-After when it sent one, otherwise jittered backoff.
func retryPause(err error, base time.Duration) time.Duration {
	var status *statusError
	if errors.As(err, &status) && status.retryAfter > 0 {
		return status.retryAfter
	}
	return computeBackoff(base, 0)
}

// computeBackoff calculates exponential backoff with full jitter: a random
// value between 0 and base * 2^attempt, capped.
func computeBackoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	const maxExponent = 10
	if attempt > maxExponent {
		attempt = maxExponent
	}

	multiplier := math.Pow(2, float64(attempt))
	maxBackoff := time.Duration(float64(base) * multiplier)

	const maxAllowed = 60 * time.Second
	if maxBackoff > maxAllowed {
		maxBackoff = maxAllowed
	}

	return time.Duration(rand.Float64() * float64(maxBackoff))
}
