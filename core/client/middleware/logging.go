package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/leofalp/chatbridge/core/client"
	"github.com/leofalp/chatbridge/internal/utils"
	"github.com/leofalp/chatbridge/providers/ai"
)

// LogLevel controls how much detail the logging middleware emits per request.
type LogLevel int

const (
	// LogLevelMinimal logs only the model name, total duration and fragment count.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard logs everything in Minimal plus the message count and
	// whether an image or proxy is attached. This is the recommended default.
	LogLevelStandard

	// LogLevelVerbose logs everything in Standard plus the last message content
	// and the full reply, each truncated to 500 characters.
	//
	// WARNING: DO NOT use LogLevelVerbose in production. It logs raw prompt
	// and reply text, which may contain sensitive user data.
	LogLevelVerbose
)

// ParseLogLevel maps "minimal", "standard" and "verbose" to a LogLevel.
// Anything else is LogLevelStandard.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "minimal":
		return LogLevelMinimal
	case "verbose":
		return LogLevelVerbose
	default:
		return LogLevelStandard
	}
}

// truncateLen is the maximum content length included in verbose log output.
const truncateLen = 500

// NewLoggingMiddleware returns a Middleware that emits structured slog entries
// before and after every call. The completion entry is emitted once the
// stream's iterator stops.
//
// The logger parameter must not be nil. Use slog.Default() if you have not
// configured a custom logger.
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) client.Middleware {
	return func(next client.StreamFunc) client.StreamFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.TextStream, error) {
			logger.InfoContext(ctx, "llm stream", buildRequestAttrs(request, level)...)

			start := time.Now()
			stream, err := next(ctx, request)
			if err != nil {
				logger.ErrorContext(ctx, "llm stream failed",
					slog.String("model", request.Model),
					slog.Duration("duration", time.Since(start)),
					slog.String("error", err.Error()),
				)
				return nil, err
			}

			return wrapStreamWithLogging(ctx, stream, logger, request.Model, level, start), nil
		}
	}
}

// wrapStreamWithLogging returns a TextStream whose iterator logs a completion
// entry when the stream ends normally, or an error entry on failure.
func wrapStreamWithLogging(
	ctx context.Context,
	stream *ai.TextStream,
	logger *slog.Logger,
	model string,
	level LogLevel,
	start time.Time,
) *ai.TextStream {
	return ai.NewTextStream(func(yield func(string, error) bool) {
		var reply strings.Builder
		fragments := 0

		for fragment, err := range stream.Iter() {
			if err != nil {
				logger.ErrorContext(ctx, "llm stream failed",
					slog.String("model", model),
					slog.Duration("duration", time.Since(start)),
					slog.Int("fragments", fragments),
					slog.String("error", err.Error()),
				)
				yield(fragment, err)
				return
			}

			fragments++
			if level >= LogLevelVerbose && reply.Len() < truncateLen {
				reply.WriteString(fragment)
			}

			if !yield(fragment, nil) {
				logger.InfoContext(ctx, "llm stream abandoned",
					slog.String("model", model),
					slog.Duration("duration", time.Since(start)),
					slog.Int("fragments", fragments),
				)
				return
			}
		}

		attrs := []any{
			slog.String("model", model),
			slog.Duration("duration", time.Since(start)),
			slog.Int("fragments", fragments),
		}

		if level >= LogLevelVerbose {
			attrs = append(attrs, slog.String("response_content", utils.TruncateString(reply.String(), truncateLen)))
		}

		logger.InfoContext(ctx, "llm stream completed", attrs...)
	})
}

// buildRequestAttrs returns slog attributes for an outgoing chat request,
// expanding detail according to the requested verbosity level.
func buildRequestAttrs(request ai.ChatRequest, level LogLevel) []any {
	attrs := []any{
		slog.String("model", request.Model),
		slog.Bool("stream", request.Stream),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs,
			slog.Int("message_count", len(request.Messages)),
			slog.Bool("has_image", request.Image != nil),
			slog.Bool("proxied", request.Proxy != ""),
		)
	}

	if level >= LogLevelVerbose && len(request.Messages) > 0 {
		last := request.Messages[len(request.Messages)-1]
		attrs = append(attrs,
			slog.String("last_message_role", string(last.Role)),
			slog.String("last_message_content", utils.TruncateString(last.Content, truncateLen)),
		)
	}

	return attrs
}
