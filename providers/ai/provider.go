package ai

import (
	"context"
	"net/http"
)

// Provider is the interface every backend adapter satisfies. A caller picks a
// provider by name (see the registry package) and drives every backend the
// same way: build a ChatRequest, call CreateStream, range over the fragments.
type Provider interface {
	// Name returns the identifier the provider is registered under.
	Name() string

	// Models lists the model ids the provider accepts.
	Models() []string

	// CreateStream sends the request and returns a TextStream over the
	// generated text. Failures detected before any text is produced
	// (missing credentials, unknown model, handshake or HTTP errors) are
	// returned directly; failures while reading the body are yielded by
	// the stream's iterator.
	CreateStream(ctx context.Context, request ChatRequest) (*TextStream, error)

	// WithAPIKey sets the credential used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client per-call clients are derived from.
	WithHttpClient(httpClient *http.Client) Provider
}
