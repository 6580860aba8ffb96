package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"

	"go.trai.ch/zerr"
)

var (
	// ErrUnauthorized is matched by a 401 response; the stored token is no
	// longer accepted by the API.
	ErrUnauthorized = zerr.New("unauthorized")

	// ErrResponseTooLarge is returned when a body exceeds the read limit.
	ErrResponseTooLarge = zerr.New("response body too large")
)

// StatusError is a non-2xx response from the API. It is never retried.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401 StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// IsTransient reports whether err is a network-class failure worth retrying:
// a timeout (per-attempt deadline) or a connection-level error such as a
// refused or reset connection. HTTP status errors, decode errors and caller
// cancellation are not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}

	// *url.Error satisfies net.Error for every failure of http.Client.Do,
	// so look at what it wraps instead.
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			return true
		}
		err = ue.Err
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
