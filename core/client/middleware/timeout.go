package middleware

import (
	"context"
	"time"

	"github.com/leofalp/chatbridge/core/client"
	"github.com/leofalp/chatbridge/providers/ai"
)

// NewTimeoutMiddleware returns a Middleware that enforces a deadline on the
// complete lifetime of a stream, not just the time to receive the first byte.
//
// The cancel function is not deferred when next returns. It runs once the
// stream is drained, fails, or the caller breaks out of the range loop. A
// shorter deadline already on the caller's context wins, as usual.
func NewTimeoutMiddleware(timeout time.Duration) client.Middleware {
	return func(next client.StreamFunc) client.StreamFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.TextStream, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)

			stream, err := next(ctx, request)
			if err != nil {
				cancel()
				return nil, err
			}

			return wrapStreamWithCancel(stream, cancel), nil
		}
	}
}

// wrapStreamWithCancel calls cancel once the wrapped iterator stops for any
// reason.
func wrapStreamWithCancel(stream *ai.TextStream, cancel context.CancelFunc) *ai.TextStream {
	return ai.NewTextStream(func(yield func(string, error) bool) {
		defer cancel()

		for fragment, err := range stream.Iter() {
			if !yield(fragment, err) || err != nil {
				return
			}
		}
	})
}
