package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/leofalp/chatbridge/internal/utils"
	"github.com/leofalp/chatbridge/providers/ai"
	"github.com/leofalp/chatbridge/providers/observability"
)

// stream calls streamGenerateContent and returns a TextStream yielding the
// first text part of every response object, in order.
//
// Gemini answers with a JSON array whose elements are written out as they
// are generated. The body is read line by line and each line is pushed into
// the provider's Framer; a completed object is decoded immediately, so the
// first fragment is available before the array is closed.
func (provider *GeminiProvider) stream(ctx context.Context, client *http.Client, release func(), endpoint, bearerKey string, geminiRequest generateContentRequest) (*ai.TextStream, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	httpResponse, err := utils.DoPostStream(ctx, client, endpoint, bearerKey, geminiRequest)
	if err != nil {
		release()
		if observer != nil {
			observer.Trace(ctx, "Streaming HTTP request failed", observability.Error(err))
		}
		return nil, convertError(err)
	}

	chunker := utils.NewLineChunker(httpResponse.Body)
	framer := provider.newFramer()

	iteratorFunc := func(yield func(string, error) bool) {
		defer release()
		defer utils.CloseWithLog(httpResponse.Body)

		fragments := 0
		defer func() {
			if span != nil {
				span.SetAttributes(observability.Int(observability.AttrStreamFragments, fragments))
				span.AddEvent(observability.EventLLMRequestEnd)
			}
		}()

		for {
			if ctx.Err() != nil {
				yield("", ctx.Err())
				return
			}

			chunk, readErr := chunker.Next()
			if len(chunk) > 0 {
				if object, complete := framer.Push(chunk); complete {
					text, decodeErr := provider.decodeText(object)
					if decodeErr != nil {
						if span != nil {
							span.RecordError(decodeErr)
							span.SetAttributes(observability.String(observability.AttrStreamRawBuffer, utils.TruncateStringDefault(string(object))))
						}
						yield("", decodeErr)
						return
					}
					fragments++
					if !yield(text, nil) {
						return
					}
				}
			}

			if errors.Is(readErr, io.EOF) {
				if remaining := framer.Remaining(); len(remaining) > 0 && observer != nil {
					observer.Warn(ctx, "Gemini stream ended inside an object, dropping unterminated buffer",
						observability.String(observability.AttrStreamRawBuffer, utils.TruncateStringDefault(string(remaining))),
					)
				}
				return
			}
			if readErr != nil {
				yield("", fmt.Errorf("%s: stream read error: %w", ProviderName, readErr))
				return
			}
		}
	}

	return ai.NewTextStream(iteratorFunc), nil
}
