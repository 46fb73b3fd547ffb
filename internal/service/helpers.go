package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"

	appErrors "github.com/luct-reporting/reporting-api/pkg/errors"
)

// storageError normalises repository failures: already-typed domain
// errors pass through, timeouts and connection failures become a
// retryable unavailable error, anything else is wrapped as internal
// without leaking storage detail to the caller.
func storageError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if isRetryable(err) {
		return appErrors.Clone(appErrors.ErrUnavailable, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// isRetryable covers the transient storage failure modes: exhausted
// deadlines, dead pool connections, network-level dial/read failures and
// the Postgres connection-exception class (08xxx).
func isRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return true
	}
	return false
}
