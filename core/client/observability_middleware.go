package client

import (
	"context"
	"time"

	"github.com/leofalp/chatbridge/providers/ai"
	"github.com/leofalp/chatbridge/providers/observability"
)

// NewObservabilityMiddleware returns a Middleware that wraps each call in a
// provider.stream span. The span stays open until the returned stream has
// been drained, abandoned or has failed, so its duration covers the whole
// reply rather than the time to first byte.
//
// Both the span and the observer are injected into the context before calling
// next, so adapters can retrieve them via [observability.SpanFromContext] and
// [observability.ObserverFromContext].
func NewObservabilityMiddleware(observer observability.Observer, providerName string) Middleware {
	return func(next StreamFunc) StreamFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.TextStream, error) {
			ctx = observability.ContextWithObserver(ctx, observer)
			ctx, span := observer.StartSpan(ctx, observability.SpanProviderStream,
				observability.String(observability.AttrLLMProvider, providerName),
				observability.String(observability.AttrLLMModel, request.Model),
			)

			observer.Debug(ctx, "llm stream",
				observability.String(observability.AttrLLMProvider, providerName),
				observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			)

			start := time.Now()
			stream, err := next(ctx, request)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, "create stream failed")
				span.End()

				observer.Error(ctx, "llm stream failed",
					observability.Error(err),
					observability.Duration("duration", time.Since(start)),
					observability.String(observability.AttrLLMProvider, providerName),
				)
				return nil, err
			}

			return wrapStreamWithObservability(ctx, stream, span, observer, providerName, start), nil
		}
	}
}

// wrapStreamWithObservability returns a TextStream that yields every fragment
// unchanged and closes span once the underlying iterator stops.
func wrapStreamWithObservability(
	ctx context.Context,
	stream *ai.TextStream,
	span observability.Span,
	observer observability.Observer,
	providerName string,
	start time.Time,
) *ai.TextStream {
	return ai.NewTextStream(func(yield func(string, error) bool) {
		defer span.End()

		fragments, characters := 0, 0
		for fragment, err := range stream.Iter() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, "stream failed")

				observer.Error(ctx, "llm stream failed",
					observability.Error(err),
					observability.Duration("duration", time.Since(start)),
					observability.String(observability.AttrLLMProvider, providerName),
					observability.Int(observability.AttrStreamFragments, fragments),
				)

				yield("", err)
				return
			}

			fragments++
			characters += len(fragment)

			if !yield(fragment, nil) {
				span.SetStatus(observability.StatusOK, "abandoned")
				observer.Info(ctx, "llm stream abandoned",
					observability.String(observability.AttrLLMProvider, providerName),
					observability.Duration("duration", time.Since(start)),
				)
				return
			}
		}

		span.SetAttributes(observability.Int(observability.AttrStreamFragments, fragments))
		span.SetStatus(observability.StatusOK, "")
		observer.Info(ctx, "llm stream completed",
			observability.String(observability.AttrLLMProvider, providerName),
			observability.Duration("duration", time.Since(start)),
			observability.Int(observability.AttrStreamFragments, fragments),
			observability.Int("characters", characters),
		)
	})
}
