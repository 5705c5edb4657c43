// Package client sits between callers and a raw ai.Provider. A Client threads
// every CreateStream call through a middleware chain (timeouts, logging,
// tracing) so the adapters themselves stay focused on their wire
// protocol.
//
// The primary entry point is [New], which accepts an [ai.Provider] and a set of
// functional options such as [WithMiddleware] and [WithObserver].
//
//	c, err := client.New(provider,
//	    client.WithObserver(slogobs.New(slog.Default())),
//	    client.WithMiddleware(middleware.NewTimeoutMiddleware(2*time.Minute)),
//	)
//	stream, err := c.Stream(ctx, request)
package client
