// Package context derives contexts bound to test deadlines.
package context

import (
	"context"
	"testing"
	"time"
)

// margin left after the context expires, for cleanups.
const margin = time.Second

// WithTest returns a context expiring a bit before the deadline of t.
//
// When t has no deadline, it is just cancelable.
func WithTest(ctx context.Context, t *testing.T) (context.Context, context.CancelFunc) {
	deadline, ok := t.Deadline()
	if !ok {
		return context.WithCancel(ctx)
	}
	return context.WithDeadline(ctx, deadline.Add(-margin))
}
