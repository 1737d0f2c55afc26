// Package reqid attaches a random request ID to a context so subscribers
// can correlate start and finish events for the same request.
package reqid

import (
	"context"
	"fmt"
	"math/rand/v2"
)

type key struct{}

// NewContext returns a copy of parent carrying a fresh request ID, and the
// ID itself.
func NewContext(parent context.Context) (context.Context, string) {
	id := fmt.Sprintf("%016x", rand.Uint64())
	return context.WithValue(parent, key{}, id), id
}

// FromContext extracts the request ID from ctx, reporting whether one was
// present.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(key{}).(string)
	return id, ok
}
