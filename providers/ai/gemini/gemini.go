package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/leofalp/chatbridge/internal/utils"
	"github.com/leofalp/chatbridge/providers/ai"
	"github.com/leofalp/chatbridge/providers/observability"
)

const (
	// ProviderName is the name the provider is registered under.
	ProviderName = "gemini"

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// ModelGeminiPro is the default text model.
	ModelGeminiPro = "gemini-pro"
	// ModelGeminiProVision is selected when an image is sent without a model.
	ModelGeminiProVision = "gemini-pro-vision"

	methodGenerate       = "generateContent"
	methodStreamGenerate = "streamGenerateContent"
)

var supportedModels = []string{ModelGeminiPro, ModelGeminiProVision}

// authMode is how the API key travels with a request.
type authMode string

const (
	authBearer authMode = "bearer" // Authorization: Bearer header
	authQuery  authMode = "query"  // ?key= query parameter
)

// GeminiProvider implements ai.Provider for the Gemini generateContent API.
type GeminiProvider struct {
	apiKey    string
	baseURL   string // empty means the public endpoint
	client    *http.Client
	newFramer func() Framer
	lenient   bool
}

// New creates a new Gemini provider instance with default values from environment.
// Environment variables:
//   - GEMINI_API_KEY: API key for authentication
//   - GEMINI_API_BASE_URL: custom base URL (optional); setting it switches
//     authentication from the key query parameter to a bearer header
func New() *GeminiProvider {
	return &GeminiProvider{
		apiKey:    os.Getenv("GEMINI_API_KEY"),
		baseURL:   os.Getenv("GEMINI_API_BASE_URL"),
		client:    &http.Client{},
		newFramer: NewMarkerFramer,
	}
}

// WithAPIKey sets the API key for the provider.
func (provider *GeminiProvider) WithAPIKey(apiKey string) ai.Provider {
	provider.apiKey = apiKey
	return provider
}

// WithBaseURL sets a custom base URL. A non-empty value makes the provider
// authenticate with a bearer header instead of the key query parameter.
func (provider *GeminiProvider) WithBaseURL(baseURL string) ai.Provider {
	provider.baseURL = baseURL
	return provider
}

// WithHttpClient sets a custom HTTP client.
func (provider *GeminiProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	provider.client = httpClient
	return provider
}

// WithFramer replaces the byte-exact MarkerFramer used to split streaming
// responses. newFramer is called once per stream.
func (provider *GeminiProvider) WithFramer(newFramer func() Framer) *GeminiProvider {
	provider.newFramer = newFramer
	return provider
}

// WithLenientDecoding makes the streaming decoder repair malformed objects
// with jsonrepair before giving up with a StreamDecodeError.
func (provider *GeminiProvider) WithLenientDecoding(lenient bool) *GeminiProvider {
	provider.lenient = lenient
	return provider
}

// Name implements ai.Provider.
func (provider *GeminiProvider) Name() string {
	return ProviderName
}

// Models implements ai.Provider.
func (provider *GeminiProvider) Models() []string {
	return slices.Clone(supportedModels)
}

// resolveModel applies the model defaults: an image without a model selects
// the vision model, no model at all selects gemini-pro.
func resolveModel(model string, hasImage bool) (string, error) {
	if model == "" {
		if hasImage {
			return ModelGeminiProVision, nil
		}
		return ModelGeminiPro, nil
	}
	if !slices.Contains(supportedModels, model) {
		return "", &ai.UnknownModelError{Provider: ProviderName, Model: model}
	}
	return model, nil
}

// authFor selects how the key is sent: a custom base URL gets a bearer
// header, the public endpoint gets the key query parameter. Never both.
func authFor(baseURL string) authMode {
	if baseURL == "" {
		return authQuery
	}
	return authBearer
}

// endpointFor builds the request URL for model and returns the key to pass as
// bearer token (empty when the key travels in the query string).
func endpointFor(baseURL, apiKey, model string, stream bool) (string, string, authMode) {
	method := methodGenerate
	if stream {
		method = methodStreamGenerate
	}

	base := baseURL
	if base == "" {
		base = defaultBaseURL
	}
	endpoint := fmt.Sprintf("%s/models/%s:%s", strings.TrimRight(base, "/"), model, method)

	mode := authFor(baseURL)
	if mode == authQuery {
		return endpoint + "?key=" + url.QueryEscape(apiKey), "", mode
	}
	return endpoint, apiKey, mode
}

// CreateStream implements ai.Provider. With request.Stream unset it calls
// generateContent and yields a single fragment; otherwise it calls
// streamGenerateContent and yields one fragment per response object.
func (provider *GeminiProvider) CreateStream(ctx context.Context, request ai.ChatRequest) (*ai.TextStream, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	if provider.apiKey == "" {
		return nil, &ai.AuthenticationError{Provider: ProviderName, Reason: `missing "api_key"`}
	}

	model, err := resolveModel(request.Model, request.Image != nil)
	if err != nil {
		return nil, err
	}

	endpoint, bearerKey, mode := endpointFor(provider.baseURL, provider.apiKey, model, request.Stream)

	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, ProviderName),
			observability.String(observability.AttrLLMEndpoint, utils.RedactURL(endpoint)),
			observability.String(observability.AttrLLMModel, model),
			observability.Bool(observability.AttrLLMStreaming, request.Stream),
			observability.String(observability.AttrLLMAuthMode, string(mode)),
		)
	}

	if observer != nil {
		observer.Trace(ctx, "Gemini provider preparing request",
			observability.String(observability.AttrLLMProvider, ProviderName),
			observability.String(observability.AttrLLMModel, model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			observability.Bool(observability.AttrRequestHasImage, request.Image != nil),
			observability.Bool(observability.AttrRequestProxy, request.Proxy != ""),
		)
	}

	geminiRequest, err := buildRequest(request)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ProviderName, err)
	}

	client, release, err := utils.NewScopedClient(provider.client, request.Proxy, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ProviderName, err)
	}

	if request.Stream {
		return provider.stream(ctx, client, release, endpoint, bearerKey, geminiRequest)
	}
	defer release()

	_, body, err := utils.DoPostRaw(ctx, client, endpoint, bearerKey, geminiRequest)
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "HTTP request failed", observability.Error(err))
		}
		return nil, convertError(err)
	}

	text, err := provider.decodeText(body)
	if err != nil {
		return nil, err
	}

	if span != nil {
		span.AddEvent(observability.EventLLMRequestEnd)
	}
	return ai.NewSingleFragmentStream(text), nil
}

// decodeText decodes one generateContentResponse object and returns its first
// text part. Any failure is a StreamDecodeError carrying the exact object.
func (provider *GeminiProvider) decodeText(object []byte) (string, error) {
	var (
		response generateContentResponse
		err      error
	)
	if provider.lenient {
		response, err = utils.UnmarshalLenient[generateContentResponse](object)
	} else {
		err = json.Unmarshal(object, &response)
	}
	if err == nil {
		var text string
		if text, err = firstText(response); err == nil {
			return text, nil
		}
	}
	return "", &ai.StreamDecodeError{Provider: ProviderName, Raw: string(object), Err: err}
}

// convertError maps HTTP helper errors onto the ai error taxonomy.
func convertError(err error) error {
	var statusErr *utils.HTTPStatusError
	if errors.As(err, &statusErr) {
		return &ai.RemoteAPIError{
			Provider:   ProviderName,
			StatusCode: statusErr.StatusCode,
			Message:    extractErrorMessage(statusErr.Body),
		}
	}
	return fmt.Errorf("%s: %w", ProviderName, err)
}
