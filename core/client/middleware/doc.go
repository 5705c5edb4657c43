// Package middleware provides built-in middleware for the chatbridge client.
// Each middleware is constructed via a New* function that returns a
// [client.Middleware] ready to be passed to [client.WithMiddleware].
//
// # Available Middleware
//
//   - [NewTimeoutMiddleware]: Bounds the whole lifetime of a stream, so a
//     stalled backend does not block the caller indefinitely.
//
//   - [NewLoggingMiddleware]: Emits structured slog entries before and after
//     every call, with three verbosity levels (Minimal, Standard, Verbose).
//
// # Usage
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(2*time.Minute),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// A request travels Timeout → Logging → Provider, and the stream
// travels back in reverse.
package middleware
