package testutil

import (
	"context"
	"testing"
	"time"
)

// ContextWithTimeout returns a context that is canceled after d or when the
// test finishes, whichever comes first.
func ContextWithTimeout(tb testing.TB, d time.Duration) context.Context {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	tb.Cleanup(cancel)
	return ctx
}
