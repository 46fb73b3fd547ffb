package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
)

// Every storage call is bounded; exhausting the deadline surfaces as a
// retryable unavailable error at the service layer.
var queryTimeout = 5 * time.Second

// SetQueryTimeout overrides the per-query deadline applied to all
// repository calls. Called once at startup from configuration.
func SetQueryTimeout(d time.Duration) {
	if d > 0 {
		queryTimeout = d
	}
}

func queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
