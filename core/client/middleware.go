package client

import (
	"context"

	"github.com/leofalp/chatbridge/providers/ai"
)

// StreamFunc sends a chat request and returns the stream of generated text.
// It is the unit threaded through the middleware chain.
type StreamFunc func(ctx context.Context, request ai.ChatRequest) (*ai.TextStream, error)

// Middleware intercepts stream requests and may wrap the returned TextStream to
// observe or transform the fragment sequence. Middlewares are applied
// outermost-first: the first middleware in the slice is the outermost wrapper.
type Middleware func(next StreamFunc) StreamFunc

// buildChain constructs the linear middleware chain. The base function calls
// the provider directly; middlewares are applied in reverse so that
// middlewares[0] is the first to see an incoming request.
func buildChain(provider ai.Provider, middlewares []Middleware) StreamFunc {
	var chain StreamFunc = provider.CreateStream

	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i](chain)
	}

	return chain
}
