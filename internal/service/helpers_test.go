package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	appErrors "github.com/luct-reporting/reporting-api/pkg/errors"
)

func TestStorageErrorRetryableFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"deadline exceeded", context.DeadlineExceeded},
		{"canceled", context.Canceled},
		{"wrapped deadline", fmt.Errorf("list reports: %w", context.DeadlineExceeded)},
		{"bad connection", driver.ErrBadConn},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}},
		{"wrapped dial failure", fmt.Errorf("list reports: %w", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED})},
		{"pq connection failure", &pq.Error{Code: "08006"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := storageError(tc.err, "failed to list reports")
			assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
			assert.Equal(t, appErrors.ErrUnavailable.Status, appErrors.FromError(err).Status)
		})
	}
}

func TestStorageErrorPassesThroughTypedErrors(t *testing.T) {
	err := storageError(appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course"), "failed to create enrollment")
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "already enrolled in this course", appErrors.FromError(err).Message)
}

func TestStorageErrorWrapsUnknownAsInternal(t *testing.T) {
	err := storageError(errors.New("syntax error at or near SELECT"), "failed to list reports")
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	assert.Equal(t, "failed to list reports", appErr.Message)
}

func TestStorageErrorUniqueViolationIsNotRetryable(t *testing.T) {
	err := storageError(&pq.Error{Code: "23505"}, "failed to create rating")
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
