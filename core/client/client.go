package client

import (
	"context"
	"errors"

	"github.com/leofalp/chatbridge/providers/ai"
	"github.com/leofalp/chatbridge/providers/observability"
)

// ErrNilProvider is returned by New when no provider is given.
var ErrNilProvider = errors.New("client: provider is nil")

// Client drives a single provider through a middleware chain. It is immutable
// after New and safe for concurrent use as long as the provider is.
type Client struct {
	provider    ai.Provider
	observer    observability.Observer
	middlewares []Middleware
	chain       StreamFunc
}

// Option configures a Client.
type Option func(*Client)

// WithMiddleware appends middlewares to the chain. They run in the order
// given, after the observability middleware when an observer is set.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(c *Client) {
		for _, middleware := range middlewares {
			if middleware != nil {
				c.middlewares = append(c.middlewares, middleware)
			}
		}
	}
}

// WithObserver enables tracing: the observability middleware is prepended to
// the chain so it records the end-to-end outcome of every call.
func WithObserver(observer observability.Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// New builds a Client around provider.
func New(provider ai.Provider, options ...Option) (*Client, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	c := &Client{provider: provider}
	for _, option := range options {
		option(c)
	}

	middlewares := c.middlewares
	if c.observer != nil {
		middlewares = append([]Middleware{NewObservabilityMiddleware(c.observer, provider.Name())}, middlewares...)
	}
	c.chain = buildChain(provider, middlewares)

	return c, nil
}

// Provider returns the wrapped provider.
func (c *Client) Provider() ai.Provider {
	return c.provider
}

// Stream sends request through the middleware chain and returns the reply
// stream. Errors follow the provider contract: failures before the first
// fragment are returned, later failures are yielded by the stream.
func (c *Client) Stream(ctx context.Context, request ai.ChatRequest) (*ai.TextStream, error) {
	return c.chain(ctx, request)
}

// Complete is Stream followed by Collect.
func (c *Client) Complete(ctx context.Context, request ai.ChatRequest) (string, error) {
	stream, err := c.Stream(ctx, request)
	if err != nil {
		return "", err
	}
	return stream.Collect()
}
