package liaobots

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/chatbridge/internal/utils"
	"github.com/leofalp/chatbridge/providers/ai"
	"github.com/leofalp/chatbridge/providers/observability"
)

// invalidSessionMarker starts the HTML page the backend serves instead of
// chat text once the auth code is no longer accepted.
var invalidSessionMarker = []byte("<html coupert-item=")

// iterate reads the chat body as raw chunks. Each chunk is yielded as text,
// with an incomplete trailing UTF-8 sequence held back until the next chunk
// completes it.
func (provider *LiaobotsProvider) iterate(ctx context.Context, httpResponse *http.Response, release func()) iter.Seq2[string, error] {
	span := observability.SpanFromContext(ctx)
	chunker := utils.NewRawChunker(httpResponse.Body)

	return func(yield func(string, error) bool) {
		defer release()
		defer utils.CloseWithLog(httpResponse.Body)

		fragments := 0
		defer func() {
			if span != nil {
				span.SetAttributes(observability.Int(observability.AttrStreamFragments, fragments))
				span.AddEvent(observability.EventLLMRequestEnd)
			}
		}()

		var pending []byte
		for {
			if ctx.Err() != nil {
				yield("", ctx.Err())
				return
			}

			chunk, readErr := chunker.Next()
			if len(chunk) > 0 {
				// Checked on the carried bytes too, so a marker cut by a
				// rune boundary is still caught.
				window := append(bytes.Clone(pending), chunk...)
				if index := bytes.Index(window, invalidSessionMarker); index >= 0 {
					sessionErr := &ai.InvalidSessionError{Provider: ProviderName, Snippet: renderSnippet(window[index:])}
					if span != nil {
						span.RecordError(sessionErr)
					}
					yield("", sessionErr)
					return
				}

				var text string
				text, pending = utils.SplitIncompleteRune(pending, chunk)
				if text != "" {
					fragments++
					if !yield(text, nil) {
						return
					}
				}
			}

			if errors.Is(readErr, io.EOF) {
				if len(pending) > 0 {
					fragments++
					yield(string(pending), nil)
				}
				return
			}
			if readErr != nil {
				yield("", fmt.Errorf("%s: stream read error: %w", ProviderName, readErr))
				return
			}
		}
	}
}

// renderSnippet turns the invalid-session page into short readable text for
// the error message. The raw HTML is used when conversion fails.
func renderSnippet(page []byte) string {
	markdown, err := htmltomarkdown.ConvertString(string(page))
	if err != nil || strings.TrimSpace(markdown) == "" {
		return utils.TruncateStringDefault(string(page))
	}
	return utils.TruncateStringDefault(strings.TrimSpace(markdown))
}
