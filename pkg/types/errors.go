package types

import (
	"errors"
	"fmt"
	"strings"
)

// TransientFetchError marks a failed or timed-out market-data call.
// Callers recover locally by serving the last cached snapshot.
type TransientFetchError struct {
	Op  string
	Err error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("transient fetch error: %s: %v", e.Op, e.Err)
}

func (e *TransientFetchError) Unwrap() error { return e.Err }

// IsTransientFetch reports whether err is a TransientFetchError.
func IsTransientFetch(err error) bool {
	var t *TransientFetchError
	return errors.As(err, &t)
}

// MalformedDataError marks a single unparseable quote. The offending
// instrument is dropped; processing continues with the remainder.
type MalformedDataError struct {
	Symbol string
	Reason string
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed instrument %q: %s", e.Symbol, e.Reason)
}

// CriticalError wraps a failure after which trading must not continue:
// an unmonitored short position is worse than a dead process.
type CriticalError struct {
	Reason string
	Err    error
}

func (e *CriticalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("critical: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("critical: %s", e.Reason)
}

func (e *CriticalError) Unwrap() error { return e.Err }

// criticalPatterns classify errors whose message indicates connectivity
// exhaustion, invalid credentials or resource exhaustion.
var criticalPatterns = []string{
	"invalid credentials",
	"unauthorized",
	"authentication failed",
	"too many open files",
	"out of memory",
	"connection pool exhausted",
	"no route to host",
}

// IsCritical reports whether err must halt all workers and the process.
func IsCritical(err error) bool {
	if err == nil {
		return false
	}

	var c *CriticalError
	if errors.As(err, &c) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range criticalPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}
