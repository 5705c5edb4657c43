// Package observability defines the tracing and logging interfaces used by the
// provider adapters, plus the attribute keys and span/event names they record.
//
// Both [Observer] and [Span] travel through a [context.Context]: attach them
// with [ContextWithObserver] and [ContextWithSpan], read them back with
// [ObserverFromContext] and [SpanFromContext]. Every provider checks for nil
// before using either, so a bare context disables observability entirely.
//
// The semconv.go file holds the attribute keys and names; use them instead of
// ad hoc strings so log output stays consistent across providers.
package observability
