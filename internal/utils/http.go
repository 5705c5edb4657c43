package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/leofalp/chatbridge/providers/observability"
)

// maxResponseBodySize is the maximum response body size (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// HeaderOption is a single request header applied after the default headers,
// so it can override Content-Type or Authorization.
type HeaderOption struct {
	Key   string
	Value string
}

// HTTPStatusError is returned by the POST helpers when the server answers with
// a status outside the 2xx range. Body holds the (size-capped) response body
// so callers can extract vendor diagnostics from it.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, TruncateStringDefault(string(e.Body)))
}

// CloseWithLog closes closer and logs a warning if that fails. It is meant for
// deferred response body cleanup where a close error must not override the
// function's primary result.
func CloseWithLog(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}

// encodeBody serialises body for a POST request. url.Values are sent as an
// HTML form, raw byte slices verbatim, nil as an empty body and anything else
// as JSON.
func encodeBody(body any) ([]byte, string, error) {
	switch typed := body.(type) {
	case nil:
		return nil, "", nil
	case url.Values:
		return []byte(typed.Encode()), "application/x-www-form-urlencoded", nil
	case []byte:
		return typed, "application/json", nil
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("error marshaling body: %w", err)
		}
		return encoded, "application/json", nil
	}
}

// newPostRequest builds a POST request with the encoded body, bearer auth
// when apiKey is set, and the extra headers applied last.
func newPostRequest(ctx context.Context, url string, apiKey string, body any, headers []HeaderOption) (*http.Request, int, error) {
	encoded, contentType, err := encodeBody(body)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	return req, len(encoded), nil
}

// DoPostRaw performs a synchronous HTTP POST and returns the fully read
// response body without interpreting it. The response body is always closed.
//
// Error Handling Strategy:
//   - Context errors (timeout, cancellation) are propagated immediately
//   - Connection failures are wrapped with "error sending request"
//   - Non-2xx statuses return the body together with an *HTTPStatusError
//   - Response body close errors are logged but don't override primary errors
func DoPostRaw(ctx context.Context, client *http.Client, url string, apiKey string, body any, headers ...HeaderOption) (*http.Response, []byte, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, bodySize, err := newPostRequest(ctx, url, apiKey, body, headers)
	if err != nil {
		return nil, nil, err
	}

	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, RedactURL(url)),
			observability.Int(observability.AttrHTTPRequestBodySize, bodySize),
		)
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", requestDuration),
			)
		}
		return res, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res, nil, fmt.Errorf("error reading response body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, respBody, &HTTPStatusError{StatusCode: res.StatusCode, Status: res.Status, Body: respBody}
	}

	return res, respBody, nil
}

// DoPostSync performs a synchronous HTTP POST and unmarshals the JSON response
// into OutputStruct. The response Content-Type is ignored; some backends
// answer JSON with text/html.
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any, headers ...HeaderOption) (*http.Response, *OutputStruct, error) {
	res, respBody, err := DoPostRaw(ctx, client, url, apiKey, body, headers...)
	if err != nil {
		return res, nil, err
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return res, nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s", res.StatusCode, err, TruncateString(string(respBody), 500))
	}

	return res, &resStruct, nil
}
