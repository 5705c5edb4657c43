package liaobots

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/leofalp/chatbridge/internal/utils"
	"github.com/leofalp/chatbridge/providers/ai"
	"github.com/leofalp/chatbridge/providers/observability"
)

const (
	// ProviderName is the name the provider is registered under.
	ProviderName = "liaobots"

	defaultBaseURL = "https://liaobots.work"
	siteURL        = "https://liaobots.site"
	chatPath       = "/api/chat"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"

	// DefaultSystemPrompt is sent as "prompt" when the request has no system message.
	DefaultSystemPrompt = "You are ChatGPT, a large language model trained by OpenAI. Follow the user's instructions carefully."
)

// Where the auth code of a call came from.
const (
	sourceRequest   = "request"
	sourceProvider  = "provider"
	sourceCache     = "cache"
	sourceHandshake = "handshake"
)

// defaultFlight collapses concurrent handshakes against defaultStore.
var defaultFlight singleflight.Group

// LiaobotsProvider implements ai.Provider for the Liaobots chat backend.
type LiaobotsProvider struct {
	authCode string // explicit auth code, skips the handshake when set
	baseURL  string
	client   *http.Client
	store    SessionStore
	flight   *singleflight.Group
}

// New creates a new Liaobots provider instance with default values from environment.
// Environment variables:
//   - LIAOBOTS_AUTH_CODE: auth code to use instead of the login handshake (optional)
//   - LIAOBOTS_BASE_URL: custom base URL (optional, defaults to https://liaobots.work)
//
// Providers created by New share the process-wide session store, so the login
// handshake runs at most once per process.
func New() *LiaobotsProvider {
	baseURL := os.Getenv("LIAOBOTS_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &LiaobotsProvider{
		authCode: os.Getenv("LIAOBOTS_AUTH_CODE"),
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{},
		store:    defaultStore,
		flight:   &defaultFlight,
	}
}

// WithAPIKey sets an explicit auth code. Like ChatRequest.Auth it bypasses the
// handshake and is never written to the session store.
func (provider *LiaobotsProvider) WithAPIKey(apiKey string) ai.Provider {
	provider.authCode = apiKey
	return provider
}

// WithBaseURL sets a custom base URL for the login, user and chat endpoints.
func (provider *LiaobotsProvider) WithBaseURL(baseURL string) ai.Provider {
	provider.baseURL = strings.TrimRight(baseURL, "/")
	return provider
}

// WithHttpClient sets a custom HTTP client.
func (provider *LiaobotsProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	provider.client = httpClient
	return provider
}

// WithSessionStore replaces the process-wide session store, e.g. to isolate
// sessions per user. Handshakes are then de-duplicated per store.
func (provider *LiaobotsProvider) WithSessionStore(store SessionStore) *LiaobotsProvider {
	provider.store = store
	provider.flight = &singleflight.Group{}
	return provider
}

// Name implements ai.Provider.
func (provider *LiaobotsProvider) Name() string {
	return ProviderName
}

// resolveAuth picks the auth code by precedence: the request, the provider,
// the session store, and finally a new handshake. The cookie jar of the
// stored session is reused even with an explicit code.
func (provider *LiaobotsProvider) resolveAuth(ctx context.Context, request ai.ChatRequest) (Session, string, error) {
	explicit, source := request.Auth, sourceRequest
	if explicit == "" {
		explicit, source = provider.authCode, sourceProvider
	}

	if explicit != "" {
		session, _ := provider.store.Load()
		return Session{AuthCode: explicit, Jar: session.Jar}, source, nil
	}

	return provider.session(ctx, request.Proxy)
}

// CreateStream implements ai.Provider. The backend always streams plain text;
// request.Stream only documents the caller's intent. Each read of the response
// body is yielded as one fragment.
func (provider *LiaobotsProvider) CreateStream(ctx context.Context, request ai.ChatRequest) (*ai.TextStream, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	descriptor, err := Descriptor(request.Model)
	if err != nil {
		return nil, err
	}

	session, source, err := provider.resolveAuth(ctx, request)
	if err != nil {
		return nil, err
	}

	conversationID := uuid.NewString()
	prompt := request.SystemMessage
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}

	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart)
		if source == sourceCache {
			span.AddEvent(observability.EventSessionReused)
		}
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, ProviderName),
			observability.String(observability.AttrLLMEndpoint, provider.endpoint(chatPath)),
			observability.String(observability.AttrLLMModel, descriptor.ID),
			observability.String(observability.AttrLLMAuthMode, "auth_code"),
			observability.String(observability.AttrSessionSource, source),
			observability.String(observability.AttrConversationID, conversationID),
		)
	}

	if observer != nil {
		observer.Trace(ctx, "Liaobots provider preparing request",
			observability.String(observability.AttrLLMProvider, ProviderName),
			observability.String(observability.AttrLLMModel, descriptor.ID),
			observability.String(observability.AttrSessionSource, source),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			observability.Bool(observability.AttrRequestProxy, request.Proxy != ""),
		)
	}

	jar := session.Jar
	if jar == nil {
		if jar, err = utils.NewCookieJar(); err != nil {
			return nil, fmt.Errorf("%s: %w", ProviderName, err)
		}
	}

	client, release, err := utils.NewScopedClient(provider.client, request.Proxy, jar)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ProviderName, err)
	}

	body := chatRequest{
		ConversationID: conversationID,
		Model:          descriptor,
		Messages:       toChatMessages(request.Messages),
		Key:            "",
		Prompt:         prompt,
	}

	httpResponse, err := utils.DoPostStream(ctx, client, provider.endpoint(chatPath), "", body,
		provider.headers(utils.HeaderOption{Key: "x-auth-code", Value: session.AuthCode})...)
	if err != nil {
		release()
		if observer != nil {
			observer.Trace(ctx, "Streaming HTTP request failed", observability.Error(err))
		}
		return nil, convertError(err)
	}

	return ai.NewTextStream(provider.iterate(ctx, httpResponse, release)), nil
}

// convertError maps HTTP helper errors onto the ai error taxonomy.
func convertError(err error) error {
	var statusErr *utils.HTTPStatusError
	if errors.As(err, &statusErr) {
		return &ai.TransportError{
			Provider:   ProviderName,
			StatusCode: statusErr.StatusCode,
			Status:     statusErr.Status,
			Body:       utils.TruncateStringDefault(strings.TrimSpace(string(statusErr.Body))),
		}
	}
	return fmt.Errorf("%s: %w", ProviderName, err)
}
