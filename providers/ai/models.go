package ai

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest is the provider-agnostic input of a single CreateStream call.
// Provider-level settings (API key, base URL, HTTP client) are configured on
// the provider itself; everything here varies per call.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name, id or alias; empty selects the provider default
	Messages         []Message         `json:"messages"`                    // Conversation in order, oldest first
	Stream           bool              `json:"stream,omitempty"`            // Use the provider's streaming endpoint when it has one
	Proxy            string            `json:"proxy,omitempty"`             // Optional proxy URL (http, https, socks5, socks5h)
	Image            *Image            `json:"-"`                           // Optional image attached to the last message
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional sampling knobs
	SystemMessage    string            `json:"system_message,omitempty"`    // Optional system prompt for providers that take one separately
	Auth             string            `json:"-"`                           // Explicit session credential; skips any login handshake
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// GenerationConfig holds optional sampling knobs. Nil fields are left to the
// backend's defaults.
type GenerationConfig struct {
	StopSequences   []string `json:"stop,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"max_tokens,omitempty"`
	TopP            *float64 `json:"top_p,omitempty"`
	TopK            *int     `json:"top_k,omitempty"`
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Previous model response
)
