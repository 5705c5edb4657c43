package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/leofalp/chatbridge/internal/utils"
	"github.com/leofalp/chatbridge/providers/ai"
)

// rewriteTransport sends every request to target while keeping the original
// path and query, so requests built for the public endpoint reach a test server.
type rewriteTransport struct {
	target *url.URL
}

func (transport rewriteTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	clone := request.Clone(request.Context())
	clone.URL.Scheme = transport.target.Scheme
	clone.URL.Host = transport.target.Host
	return http.DefaultTransport.RoundTrip(clone)
}

func TestNew(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GEMINI_API_BASE_URL", "")

	provider := New()
	if provider == nil {
		t.Fatal("New() returned nil")
	}
	if provider.apiKey != "env-key" {
		t.Errorf("expected apiKey %q, got %q", "env-key", provider.apiKey)
	}
	if provider.baseURL != "" {
		t.Errorf("expected empty baseURL, got %q", provider.baseURL)
	}
	if provider.Name() != "gemini" {
		t.Errorf("expected name gemini, got %q", provider.Name())
	}
}

func TestWithAPIKey(t *testing.T) {
	provider := New().WithAPIKey("test-key").(*GeminiProvider)
	if provider.apiKey != "test-key" {
		t.Errorf("expected apiKey %q, got %q", "test-key", provider.apiKey)
	}
}

func TestWithBaseURL(t *testing.T) {
	provider := New().WithBaseURL("https://custom.api.com").(*GeminiProvider)
	if provider.baseURL != "https://custom.api.com" {
		t.Errorf("expected baseURL %q, got %q", "https://custom.api.com", provider.baseURL)
	}
}

func TestModels(t *testing.T) {
	models := New().Models()
	if len(models) != 2 || models[0] != ModelGeminiPro || models[1] != ModelGeminiProVision {
		t.Errorf("unexpected models: %v", models)
	}

	// The returned slice is a copy.
	models[0] = "mutated"
	if New().Models()[0] != ModelGeminiPro {
		t.Error("Models() exposed the internal slice")
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		hasImage bool
		want     string
		wantErr  bool
	}{
		{name: "default text", want: ModelGeminiPro},
		{name: "default with image", hasImage: true, want: ModelGeminiProVision},
		{name: "explicit model with image", model: ModelGeminiPro, hasImage: true, want: ModelGeminiPro},
		{name: "explicit vision", model: ModelGeminiProVision, want: ModelGeminiProVision},
		{name: "unknown", model: "gemini-ultra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveModel(tt.model, tt.hasImage)
			if tt.wantErr {
				if !errors.Is(err, ai.ErrUnknownModel) {
					t.Fatalf("expected ErrUnknownModel, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEndpointFor(t *testing.T) {
	endpoint, bearer, mode := endpointFor("", "k y", ModelGeminiPro, false)
	if endpoint != defaultBaseURL+"/models/gemini-pro:generateContent?key=k+y" {
		t.Errorf("unexpected default endpoint: %s", endpoint)
	}
	if bearer != "" || mode != authQuery {
		t.Errorf("default endpoint must use the query key only, got bearer=%q mode=%s", bearer, mode)
	}

	endpoint, bearer, mode = endpointFor("https://proxy.example/v1/", "secret", ModelGeminiProVision, true)
	if endpoint != "https://proxy.example/v1/models/gemini-pro-vision:streamGenerateContent" {
		t.Errorf("unexpected custom endpoint: %s", endpoint)
	}
	if bearer != "secret" || mode != authBearer {
		t.Errorf("custom endpoint must use bearer only, got bearer=%q mode=%s", bearer, mode)
	}
}

func TestCreateStream_NonStreaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/models/gemini-pro:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected Authorization header: %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("key") != "" {
			t.Errorf("custom base URL must not send the key query parameter")
		}

		var req generateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Role != "user" || *req.Contents[0].Parts[0].Text != "Hi" {
			t.Errorf("unexpected contents: %s", utils.JSONToString(req.Contents))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello!"}]}}]}`))
	}))
	defer server.Close()

	provider := New().WithAPIKey("test-key").WithBaseURL(server.URL)

	stream, err := provider.CreateStream(context.Background(), ai.ChatRequest{
		Model:    ModelGeminiPro,
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}

	fragments, err := stream.Fragments()
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if len(fragments) != 1 || fragments[0] != "Hello!" {
		t.Errorf("expected [\"Hello!\"], got %q", fragments)
	}
}

func TestCreateStream_QueryKeyOnDefaultEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "query-key" {
			t.Errorf("expected key query parameter %q, got %q", "query-key", got)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header: %q", r.Header.Get("Authorization"))
		}
		if !strings.HasSuffix(r.URL.Path, "/v1beta/models/gemini-pro:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer server.Close()

	target, _ := url.Parse(server.URL)
	provider := New().
		WithAPIKey("query-key").
		WithBaseURL("").
		WithHttpClient(&http.Client{Transport: rewriteTransport{target: target}})

	stream, err := provider.CreateStream(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}
	text, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if text != "ok" {
		t.Errorf("expected %q, got %q", "ok", text)
	}
}

func TestCreateStream_MissingAPIKey(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	provider := New().WithAPIKey("").WithBaseURL(server.URL)

	// The key check comes first, even before model validation.
	_, err := provider.CreateStream(context.Background(), ai.ChatRequest{
		Model:    "not-a-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	})
	if !errors.Is(err, ai.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if !strings.Contains(err.Error(), `missing "api_key"`) {
		t.Errorf("unexpected message: %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no network call, got %d", calls.Load())
	}
}

func TestCreateStream_UnknownModel(t *testing.T) {
	provider := New().WithAPIKey("k")
	_, err := provider.CreateStream(context.Background(), ai.ChatRequest{
		Model:    "gpt-4",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	})

	var modelErr *ai.UnknownModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected UnknownModelError, got %v", err)
	}
	if modelErr.Model != "gpt-4" {
		t.Errorf("expected model gpt-4, got %q", modelErr.Model)
	}
}

func TestCreateStream_NoMessages(t *testing.T) {
	provider := New().WithAPIKey("k").WithBaseURL("http://127.0.0.1:1")
	_, err := provider.CreateStream(context.Background(), ai.ChatRequest{})
	if !errors.Is(err, errNoMessages) {
		t.Fatalf("expected errNoMessages, got %v", err)
	}
}

func TestCreateStream_VisionDefaultAndImagePart(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-pro-vision:generateContent" {
			t.Errorf("expected vision model, got path %s", r.URL.Path)
		}

		var req generateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Contents) != 2 {
			t.Fatalf("expected 2 contents, got %d", len(req.Contents))
		}
		if len(req.Contents[0].Parts) != 1 {
			t.Errorf("image must only be attached to the last content")
		}
		last := req.Contents[1]
		if len(last.Parts) != 2 || last.Parts[1].InlineData == nil {
			t.Fatalf("expected text + inline_data on last content, got %s", utils.JSONToString(last))
		}
		if last.Parts[1].InlineData.MimeType != "image/png" {
			t.Errorf("expected image/png, got %q", last.Parts[1].InlineData.MimeType)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"a cat"}]}}]}`))
	}))
	defer server.Close()

	provider := New().WithAPIKey("k").WithBaseURL(server.URL)
	stream, err := provider.CreateStream(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: "hello"},
			{Role: ai.RoleUser, Content: "what is this?"},
		},
		Image: &ai.Image{Data: png},
	})
	if err != nil {
		t.Fatalf("CreateStream failed: %v", err)
	}
	if text, err := stream.Collect(); err != nil || text != "a cat" {
		t.Errorf("expected %q, got %q (err %v)", "a cat", text, err)
	}
}

func TestCreateStream_RemoteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	provider := New().WithAPIKey("bad").WithBaseURL(server.URL)
	_, err := provider.CreateStream(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	})

	var apiErr *ai.RemoteAPIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected RemoteAPIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "API key not valid" {
		t.Errorf("expected vendor message, got %q", apiErr.Message)
	}
}

func TestCreateStream_MissingTextIsDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	provider := New().WithAPIKey("k").WithBaseURL(server.URL)
	_, err := provider.CreateStream(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
	})
	if !errors.Is(err, ai.ErrStreamDecode) {
		t.Fatalf("expected ErrStreamDecode, got %v", err)
	}
	if !strings.Contains(err.Error(), "SAFETY") {
		t.Errorf("expected block reason in error, got %v", err)
	}
}

func TestCreateStream_InvalidProxy(t *testing.T) {
	provider := New().WithAPIKey("k").WithBaseURL("http://127.0.0.1:1")
	_, err := provider.CreateStream(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Hi"}},
		Proxy:    "ftp://proxy.example:21",
	})
	if err == nil || !strings.Contains(err.Error(), "unsupported proxy scheme") {
		t.Fatalf("expected unsupported proxy scheme error, got %v", err)
	}
}
